// Package fixture 负责读取只读的 shifts.json 并从中提取员工、部门与标签
package fixture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

type Fixture struct {
	Shifts        []domain.Shift
	Employees     []domain.Employee
	Departments   []domain.BranchWorkingArea
	Tags          []domain.Tag
	ReferenceDate time.Time // 第一个班次的开始时间，fixture 为空时为零值
}

func Parse(data []byte, loc *time.Location) (*Fixture, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析排班数据失败: %w", err)
	}

	fx := &Fixture{
		Shifts: make([]domain.Shift, 0, len(records)),
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			return nil, fmt.Errorf("排班数据中存在重复的班次 ID: %s", r.ID)
		}
		seen[r.ID] = true

		s, err := r.ToShift(loc)
		if err != nil {
			return nil, fmt.Errorf("解析排班数据失败: %w", err)
		}
		fx.Shifts = append(fx.Shifts, s)
	}

	fx.Employees, fx.Departments, fx.Tags = extract(records)
	if len(fx.Shifts) > 0 {
		fx.ReferenceDate = fx.Shifts[0].StartTZ
	}

	return fx, nil
}

// extract 按 ID 去重（区分大小写，保留第一次出现的记录），并丢弃用户名为空的员工
func extract(records []Record) ([]domain.Employee, []domain.BranchWorkingArea, []domain.Tag) {
	employees := make([]domain.Employee, 0)
	departments := make([]domain.BranchWorkingArea, 0)
	tags := make([]domain.Tag, 0)

	seenEmployees := make(map[string]bool)
	seenDepartments := make(map[int64]bool)
	seenTags := make(map[int64]bool)

	for _, r := range records {
		if !seenDepartments[r.BranchWorkingArea.ID] {
			seenDepartments[r.BranchWorkingArea.ID] = true
			departments = append(departments, r.BranchWorkingArea.toDomain())
		}

		for _, c := range r.Candidates {
			e := c.Employee
			if e.Username == "" || seenEmployees[e.ID] {
				continue
			}
			seenEmployees[e.ID] = true
			employees = append(employees, e.toDomain())
		}

		for _, st := range r.ShiftTags {
			if seenTags[st.Tag.ID] {
				continue
			}
			seenTags[st.Tag.ID] = true
			tags = append(tags, st.Tag.toDomain())
		}
	}

	week.SortDepartments(departments)
	return employees, departments, tags
}

// Encode 将班次序列化为 shifts.json 格式
func Encode(shifts []domain.Shift) ([]byte, error) {
	records := make([]Record, 0, len(shifts))
	for _, s := range shifts {
		records = append(records, FromShift(s))
	}
	return json.MarshalIndent(records, "", "  ")
}
