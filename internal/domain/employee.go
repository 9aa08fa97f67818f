package domain

import "encoding/json"

type Employee struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"userID"`
	Email      string          `json:"email"`
	Employment int             `json:"employment"`
	Phone      *string         `json:"phone"`
	Company    json.RawMessage `json:"company,omitempty"`
	Username   string          `json:"username"`
	IsUnderage bool            `json:"isUnderage"`
}

// Clone 返回一个不与原员工共享 Company 内存的副本
func (e Employee) Clone() Employee {
	c := e
	c.Company = cloneRaw(e.Company)
	return c
}
