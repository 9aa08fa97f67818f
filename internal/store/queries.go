package store

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

func (s *Store) Shift(id string) (domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.state.Shifts, id)
	if i < 0 {
		return domain.Shift{}, domain.ErrShiftNotFound
	}
	return s.state.Shifts[i].Clone(), nil
}

func (s *Store) Employee(id string) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.state.Employees {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Employee{}, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, id)
}

func (s *Store) Department(id int64) (domain.BranchWorkingArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.state.Departments {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.BranchWorkingArea{}, fmt.Errorf("%w: %d", domain.ErrDepartmentNotFound, id)
}

// Board 返回参考日期所在周的排班视图
func (s *Store) Board() week.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return week.BuildBoard(cloneShifts(s.state.Shifts), s.state.Departments, s.state.ReferenceDate)
}

// EligibleEmployees 返回可被安排到 [start, end] 班次的员工以及被排除的员工
func (s *Store) EligibleEmployees(start, end time.Time) ([]domain.Employee, []scheduler.Exclusion) {
	s.mu.RLock()
	employees := append([]domain.Employee(nil), s.state.Employees...)
	s.mu.RUnlock()

	return scheduler.EligibleEmployees(employees, start, end)
}
