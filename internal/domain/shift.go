package domain

import (
	"encoding/json"
	"time"
)

type TimeFrame struct {
	Gte time.Time `json:"gte"`
	Lte time.Time `json:"lte"`
}

type Candidate struct {
	ID       string   `json:"id"`
	Employee Employee `json:"employee"`
}

// Shift 表示某个部门的一个班次，最多只有一个被分配的候选人
type Shift struct {
	ID                   string            `json:"id"`
	Type                 string            `json:"type"`
	StartTZ              time.Time         `json:"startTZ"`
	EndTZ                time.Time         `json:"endTZ"`
	WorkingTimeInMinutes int               `json:"workingTimeInMinutes"`
	TimeFrame            TimeFrame         `json:"timeFrame"`
	Timezone             string            `json:"timezone"`
	EmployeeCount        int               `json:"employeeCount"`
	Note                 string            `json:"note"`
	AutomaticallyAccept  bool              `json:"automaticallyAccept"`
	CanditatureSystem    bool              `json:"canditatureSystem"`
	Pause                string            `json:"pause"`
	PausePaid            bool              `json:"pausePaid"`
	AutoBreakRule        bool              `json:"autoBreakRule"`
	Status               bool              `json:"status"`
	Publish              bool              `json:"publish"`
	Department           BranchWorkingArea `json:"department"`
	Candidate            *Candidate        `json:"candidate"` // 为 nil 时表示该班次未分配
	Tags                 []ShiftTag        `json:"tags"`

	// 以下字段不被解析，原样保留
	CompanyCostCentre json.RawMessage `json:"companyCostCentre,omitempty"`
	CompanyEvent      json.RawMessage `json:"companyEvent,omitempty"`
	MultiChecks       json.RawMessage `json:"multiChecks,omitempty"`
	MultiCheck        json.RawMessage `json:"multiCheck,omitempty"`
}

func (s Shift) IsAssigned() bool {
	return s.Candidate != nil
}

// Clone 返回一个不与原班次共享可变内存的副本
func (s Shift) Clone() Shift {
	c := s
	if s.Candidate != nil {
		candidate := *s.Candidate
		candidate.Employee = s.Candidate.Employee.Clone()
		c.Candidate = &candidate
	}
	if s.Tags != nil {
		c.Tags = make([]ShiftTag, len(s.Tags))
		copy(c.Tags, s.Tags)
	}
	c.CompanyCostCentre = cloneRaw(s.CompanyCostCentre)
	c.CompanyEvent = cloneRaw(s.CompanyEvent)
	c.MultiChecks = cloneRaw(s.MultiChecks)
	c.MultiCheck = cloneRaw(s.MultiCheck)
	return c
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// ShiftPatch 描述对班次的部分更新，nil 字段保持不变
type ShiftPatch struct {
	StartTZ       *time.Time
	EndTZ         *time.Time
	Department    *BranchWorkingArea
	Note          *string
	Pause         *string
	PausePaid     *bool
	Publish       *bool
	Status        *bool
	EmployeeCount *int
}
