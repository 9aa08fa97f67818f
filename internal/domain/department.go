package domain

type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

type WorkingArea struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// BranchWorkingArea 即部门：门店与工作区域的组合
type BranchWorkingArea struct {
	ID          int64       `json:"id"`
	Branch      Branch      `json:"branch"`
	WorkingArea WorkingArea `json:"workingArea"`
	Sort        int         `json:"sort"`
	Status      bool        `json:"status"`
}

func (d BranchWorkingArea) Name() string {
	return d.WorkingArea.Name
}
