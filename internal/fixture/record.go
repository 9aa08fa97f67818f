package fixture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// 以下类型与 shifts.json 的字段一一对应

type RecordBranch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

type RecordWorkingArea struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

type RecordBranchWorkingArea struct {
	ID          int64             `json:"id"`
	Branch      RecordBranch      `json:"branch"`
	WorkingArea RecordWorkingArea `json:"working_area"`
	Sort        int               `json:"sort"`
	Status      bool              `json:"status"`
}

type RecordEmployee struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"user_id"`
	Email      string          `json:"email"`
	Employment int             `json:"employment"`
	Phone      *string         `json:"phone"`
	Company    json.RawMessage `json:"company"`
	Username   string          `json:"username"`
	IsUnderage bool            `json:"is_underage"`
}

type RecordCandidate struct {
	ID       string         `json:"id"`
	Employee RecordEmployee `json:"employee"`
}

type RecordTimeFrame struct {
	Gte string `json:"gte"`
	Lte string `json:"lte"`
}

type RecordTag struct {
	ID     int64  `json:"id"`
	Value  string `json:"value"`
	Status bool   `json:"status"`
	Sort   int    `json:"sort"`
}

type RecordShiftTag struct {
	ID     string    `json:"id"`
	Status bool      `json:"status"`
	Tag    RecordTag `json:"tag"`
}

type Record struct {
	ID                   string                  `json:"id"`
	Type                 string                  `json:"type"`
	StartTZ              string                  `json:"start_tz"`
	EndTZ                string                  `json:"end_tz"`
	WorkingTimeInMinutes int                     `json:"working_time_in_minutes"`
	TimeFrame            RecordTimeFrame         `json:"time_frame"`
	Timezone             string                  `json:"timezone"`
	EmployeeCount        int                     `json:"employee_count"`
	Note                 string                  `json:"note"`
	AutomaticallyAccept  bool                    `json:"automatically_accept"`
	CanditatureSystem    bool                    `json:"canditature_system"`
	Pause                string                  `json:"pause"`
	PausePaid            bool                    `json:"pause_paid"`
	AutoBreakRule        bool                    `json:"auto_break_rule"`
	Status               bool                    `json:"status"`
	Publish              bool                    `json:"publish"`
	BranchWorkingArea    RecordBranchWorkingArea `json:"branch_working_area"`
	CompanyCostCentre    json.RawMessage         `json:"company_cost_centre"`
	CompanyEvent         json.RawMessage         `json:"company_event"`
	MultiChecks          json.RawMessage         `json:"multi_checks"`
	MultiCheck           json.RawMessage         `json:"multi_check"`
	Candidates           []RecordCandidate       `json:"candidates"`
	ShiftTags            []RecordShiftTag        `json:"shift_tags,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp 解析 fixture 中的时间字符串，不带时区的时间按 loc 解释，
// 带偏移量的时间换算到 loc
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间: %q", s)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func (e RecordEmployee) toDomain() domain.Employee {
	return domain.Employee{
		ID:         e.ID,
		UserID:     e.UserID,
		Email:      e.Email,
		Employment: e.Employment,
		Phone:      e.Phone,
		Company:    e.Company,
		Username:   e.Username,
		IsUnderage: e.IsUnderage,
	}
}

func employeeRecord(e domain.Employee) RecordEmployee {
	return RecordEmployee{
		ID:         e.ID,
		UserID:     e.UserID,
		Email:      e.Email,
		Employment: e.Employment,
		Phone:      e.Phone,
		Company:    e.Company,
		Username:   e.Username,
		IsUnderage: e.IsUnderage,
	}
}

func (d RecordBranchWorkingArea) toDomain() domain.BranchWorkingArea {
	return domain.BranchWorkingArea{
		ID:          d.ID,
		Branch:      domain.Branch{ID: d.Branch.ID, Name: d.Branch.Name, Enabled: d.Branch.Enabled},
		WorkingArea: domain.WorkingArea{ID: d.WorkingArea.ID, Name: d.WorkingArea.Name, Status: d.WorkingArea.Status},
		Sort:        d.Sort,
		Status:      d.Status,
	}
}

func (t RecordTag) toDomain() domain.Tag {
	return domain.Tag{ID: t.ID, Value: t.Value, Status: t.Status, Sort: t.Sort}
}

// ToShift 将 fixture 记录转换为班次，只保留第一个候选人
func (r Record) ToShift(loc *time.Location) (domain.Shift, error) {
	start, err := ParseTimestamp(r.StartTZ, loc)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("班次 %s 的开始时间: %w", r.ID, err)
	}
	end, err := ParseTimestamp(r.EndTZ, loc)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("班次 %s 的结束时间: %w", r.ID, err)
	}

	frame := domain.TimeFrame{Gte: start, Lte: end}
	if r.TimeFrame.Gte != "" {
		if frame.Gte, err = ParseTimestamp(r.TimeFrame.Gte, loc); err != nil {
			return domain.Shift{}, fmt.Errorf("班次 %s 的 time_frame: %w", r.ID, err)
		}
	}
	if r.TimeFrame.Lte != "" {
		if frame.Lte, err = ParseTimestamp(r.TimeFrame.Lte, loc); err != nil {
			return domain.Shift{}, fmt.Errorf("班次 %s 的 time_frame: %w", r.ID, err)
		}
	}

	s := domain.Shift{
		ID:                   r.ID,
		Type:                 r.Type,
		StartTZ:              start,
		EndTZ:                end,
		WorkingTimeInMinutes: r.WorkingTimeInMinutes,
		TimeFrame:            frame,
		Timezone:             r.Timezone,
		EmployeeCount:        r.EmployeeCount,
		Note:                 r.Note,
		AutomaticallyAccept:  r.AutomaticallyAccept,
		CanditatureSystem:    r.CanditatureSystem,
		Pause:                r.Pause,
		PausePaid:            r.PausePaid,
		AutoBreakRule:        r.AutoBreakRule,
		Status:               r.Status,
		Publish:              r.Publish,
		Department:           r.BranchWorkingArea.toDomain(),
		Tags:                 make([]domain.ShiftTag, 0, len(r.ShiftTags)),
		CompanyCostCentre:    r.CompanyCostCentre,
		CompanyEvent:         r.CompanyEvent,
		MultiChecks:          r.MultiChecks,
		MultiCheck:           r.MultiCheck,
	}

	if len(r.Candidates) > 0 {
		c := r.Candidates[0]
		s.Candidate = &domain.Candidate{ID: c.ID, Employee: c.Employee.toDomain()}
	}
	for _, st := range r.ShiftTags {
		s.Tags = append(s.Tags, domain.ShiftTag{ID: st.ID, Status: st.Status, Tag: st.Tag.toDomain()})
	}

	return s, nil
}

// FromShift 将班次转换回 fixture 记录
func FromShift(s domain.Shift) Record {
	d := s.Department
	r := Record{
		ID:                   s.ID,
		Type:                 s.Type,
		StartTZ:              FormatTimestamp(s.StartTZ),
		EndTZ:                FormatTimestamp(s.EndTZ),
		WorkingTimeInMinutes: s.WorkingTimeInMinutes,
		TimeFrame:            RecordTimeFrame{Gte: FormatTimestamp(s.TimeFrame.Gte), Lte: FormatTimestamp(s.TimeFrame.Lte)},
		Timezone:             s.Timezone,
		EmployeeCount:        s.EmployeeCount,
		Note:                 s.Note,
		AutomaticallyAccept:  s.AutomaticallyAccept,
		CanditatureSystem:    s.CanditatureSystem,
		Pause:                s.Pause,
		PausePaid:            s.PausePaid,
		AutoBreakRule:        s.AutoBreakRule,
		Status:               s.Status,
		Publish:              s.Publish,
		BranchWorkingArea: RecordBranchWorkingArea{
			ID:          d.ID,
			Branch:      RecordBranch{ID: d.Branch.ID, Name: d.Branch.Name, Enabled: d.Branch.Enabled},
			WorkingArea: RecordWorkingArea{ID: d.WorkingArea.ID, Name: d.WorkingArea.Name, Status: d.WorkingArea.Status},
			Sort:        d.Sort,
			Status:      d.Status,
		},
		CompanyCostCentre: s.CompanyCostCentre,
		CompanyEvent:      s.CompanyEvent,
		MultiChecks:       s.MultiChecks,
		MultiCheck:        s.MultiCheck,
		Candidates:        []RecordCandidate{},
	}

	if s.Candidate != nil {
		r.Candidates = append(r.Candidates, RecordCandidate{ID: s.Candidate.ID, Employee: employeeRecord(s.Candidate.Employee)})
	}
	for _, st := range s.Tags {
		r.ShiftTags = append(r.ShiftTags, RecordShiftTag{
			ID:     st.ID,
			Status: st.Status,
			Tag:    RecordTag{ID: st.Tag.ID, Value: st.Tag.Value, Status: st.Tag.Status, Sort: st.Tag.Sort},
		})
	}

	return r
}
