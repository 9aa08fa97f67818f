package week

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

type Day struct {
	Weekday Weekday   `json:"weekday"`
	Date    time.Time `json:"date"`
}

type Row struct {
	Department domain.BranchWorkingArea   `json:"department"`
	Days       map[Weekday][]domain.Shift `json:"days"`
}

// Board 是某一周的排班视图
type Board struct {
	WeekStart time.Time `json:"weekStart"`
	WeekEnd   time.Time `json:"weekEnd"`
	Days      []Day     `json:"days"`
	Rows      []Row     `json:"rows"`
}

// BuildBoard 只展示 ref 所在周内的班次；departments 中的部门即使没有班次也会出现在结果中
func BuildBoard(shifts []domain.Shift, departments []domain.BranchWorkingArea, ref time.Time) Board {
	start, end := BoundsOf(ref)
	b := Board{
		WeekStart: start,
		WeekEnd:   end,
		Days:      make([]Day, 0, len(Weekdays)),
	}
	for _, d := range Weekdays {
		b.Days = append(b.Days, Day{Weekday: d, Date: DateOf(start, d)})
	}

	grouping := GroupByDepartmentAndDay(InWeek(shifts, ref), ref.Location())

	seen := make(map[int64]bool)
	depts := make([]domain.BranchWorkingArea, 0, len(departments))
	for _, d := range departments {
		if !seen[d.ID] {
			seen[d.ID] = true
			depts = append(depts, d)
		}
	}
	// 班次中可能存在部门列表里没有的部门（例如手动添加的班次）
	for _, s := range shifts {
		if _, ok := grouping[s.Department.ID]; ok && !seen[s.Department.ID] {
			seen[s.Department.ID] = true
			depts = append(depts, s.Department)
		}
	}
	SortDepartments(depts)

	b.Rows = make([]Row, 0, len(depts))
	for _, d := range depts {
		days := grouping[d.ID]
		if days == nil {
			days = make(map[Weekday][]domain.Shift)
		}
		b.Rows = append(b.Rows, Row{Department: d, Days: days})
	}
	return b
}
