package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

type TemplateParams struct {
	ShiftsPerDay     int
	ShiftLengthHours int
	SelectedDays     []week.Weekday
	Department       domain.BranchWorkingArea
	Employee         *domain.Employee // 不为 nil 时所有生成的班次都分配给该员工
}

func ValidateTemplate(p TemplateParams, startHour int) error {
	if p.Department.ID == 0 {
		return domain.ErrDepartmentRequired
	}
	if p.ShiftsPerDay < 1 {
		return fmt.Errorf("%w: 每天的班次数至少为 1", domain.ErrInvalidTemplate)
	}
	if p.ShiftLengthHours < 1 {
		return fmt.Errorf("%w: 班次时长至少为 1 小时", domain.ErrInvalidTemplate)
	}
	if len(p.SelectedDays) == 0 {
		return fmt.Errorf("%w: 至少选择一天", domain.ErrInvalidTemplate)
	}
	for _, d := range p.SelectedDays {
		if d.Index() < 0 {
			return fmt.Errorf("%w: 无效的星期 %q", domain.ErrInvalidTemplate, d)
		}
	}
	if startHour+p.ShiftsPerDay*p.ShiftLengthHours > 24 {
		return fmt.Errorf("%w: 班次总时长超出当天", domain.ErrInvalidTemplate)
	}
	return nil
}

// GenerateTemplate 在 weekStart 所在周的每个选中日期上，从 startHour 开始生成首尾相接的班次
func GenerateTemplate(p TemplateParams, weekStart time.Time, startHour int, newID func() string) ([]domain.Shift, error) {
	if err := ValidateTemplate(p, startHour); err != nil {
		return nil, err
	}

	selected := make(map[week.Weekday]bool, len(p.SelectedDays))
	for _, d := range p.SelectedDays {
		selected[d] = true
	}

	length := time.Duration(p.ShiftLengthHours) * time.Hour
	shifts := make([]domain.Shift, 0, len(selected)*p.ShiftsPerDay)

	for _, day := range week.Weekdays {
		if !selected[day] {
			continue
		}

		date := week.DateOf(weekStart, day)
		y, m, d := date.Date()
		start := time.Date(y, m, d, startHour, 0, 0, 0, date.Location())

		for i := 0; i < p.ShiftsPerDay; i++ {
			end := start.Add(length)

			var candidate *domain.Candidate
			if p.Employee != nil {
				if err := CheckEligibility(*p.Employee, start, end); err != nil {
					return nil, err
				}
				candidate = &domain.Candidate{ID: newID(), Employee: *p.Employee}
			}

			shifts = append(shifts, NewShift(newID(), p.Department, start, end, candidate))
			start = end
		}
	}

	return shifts, nil
}
