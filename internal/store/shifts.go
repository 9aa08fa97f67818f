package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

type NewShift struct {
	Department domain.BranchWorkingArea
	Date       time.Time
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	Employee   *domain.Employee
}

// PurgeShifts 清空所有班次，员工、部门、标签和参考日期保持不变
func (s *Store) PurgeShifts() error {
	return s.mutate("purge", func(st *State) (domain.Event, error) {
		st.Shifts = []domain.Shift{}
		return eventFor(domain.EventShiftsPurged), nil
	})
}

func (s *Store) AddShift(in NewShift) (domain.Shift, error) {
	var created domain.Shift

	err := s.mutate("add", func(st *State) (domain.Event, error) {
		if in.Department.ID == 0 {
			return domain.Event{}, domain.ErrDepartmentRequired
		}

		y, m, d := in.Date.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, s.location)
		start, err := scheduler.CombineDateAndClock(date, in.StartTime)
		if err != nil {
			return domain.Event{}, err
		}
		end, err := scheduler.CombineDateAndClock(date, in.EndTime)
		if err != nil {
			return domain.Event{}, err
		}
		if err := scheduler.ValidateShiftTime(start, end); err != nil {
			return domain.Event{}, err
		}

		nextID := s.idSource(st.Shifts)

		var candidate *domain.Candidate
		if in.Employee != nil {
			if err := scheduler.CheckEligibility(*in.Employee, start, end); err != nil {
				return domain.Event{}, err
			}
			candidate = &domain.Candidate{ID: nextID(), Employee: *in.Employee}
		}

		created = scheduler.NewShift(nextID(), in.Department, start, end, candidate)
		st.Shifts = append(slices.Clone(st.Shifts), created)
		return eventFor(domain.EventShiftAdded, created), nil
	})
	if err != nil {
		return domain.Shift{}, err
	}
	return created.Clone(), nil
}

// UpdateShift 将 patch 中非空的字段合并到班次中
func (s *Store) UpdateShift(id string, patch domain.ShiftPatch) (domain.Shift, error) {
	var updated domain.Shift

	err := s.mutate("update", func(st *State) (domain.Event, error) {
		i := indexOf(st.Shifts, id)
		if i < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		sh := st.Shifts[i].Clone()
		timesChanged := false
		if patch.StartTZ != nil {
			sh.StartTZ = *patch.StartTZ
			timesChanged = true
		}
		if patch.EndTZ != nil {
			sh.EndTZ = *patch.EndTZ
			timesChanged = true
		}
		if timesChanged {
			if err := scheduler.ValidateShiftTime(sh.StartTZ, sh.EndTZ); err != nil {
				return domain.Event{}, err
			}
			sh.WorkingTimeInMinutes = int(sh.EndTZ.Sub(sh.StartTZ).Minutes())
			sh.TimeFrame = domain.TimeFrame{Gte: sh.StartTZ, Lte: sh.EndTZ}
			if sh.Candidate != nil {
				if err := scheduler.CheckEligibility(sh.Candidate.Employee, sh.StartTZ, sh.EndTZ); err != nil {
					return domain.Event{}, err
				}
			}
		}
		if patch.Department != nil {
			if patch.Department.ID == 0 {
				return domain.Event{}, domain.ErrDepartmentRequired
			}
			sh.Department = *patch.Department
		}
		if patch.Note != nil {
			sh.Note = *patch.Note
		}
		if patch.Pause != nil {
			sh.Pause = *patch.Pause
		}
		if patch.PausePaid != nil {
			sh.PausePaid = *patch.PausePaid
		}
		if patch.Publish != nil {
			sh.Publish = *patch.Publish
		}
		if patch.Status != nil {
			sh.Status = *patch.Status
		}
		if patch.EmployeeCount != nil {
			sh.EmployeeCount = *patch.EmployeeCount
		}

		shifts := slices.Clone(st.Shifts)
		shifts[i] = sh
		st.Shifts = shifts
		updated = sh
		return eventFor(domain.EventShiftUpdated, sh), nil
	})
	if err != nil {
		return domain.Shift{}, err
	}
	return updated.Clone(), nil
}

// UpdateShiftTags 用标签库中的标签替换班次的标签集合，任一标签不存在时整个操作失败
func (s *Store) UpdateShiftTags(id string, tagIDs []int64) (domain.Shift, error) {
	var updated domain.Shift

	err := s.mutate("tags", func(st *State) (domain.Event, error) {
		i := indexOf(st.Shifts, id)
		if i < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		vocabulary := make(map[int64]domain.Tag, len(st.Tags))
		for _, t := range st.Tags {
			vocabulary[t.ID] = t
		}

		nextID := s.idSource(st.Shifts)
		tags := make([]domain.ShiftTag, 0, len(tagIDs))
		seen := make(map[int64]bool, len(tagIDs))
		for _, tagID := range tagIDs {
			tag, ok := vocabulary[tagID]
			if !ok {
				return domain.Event{}, fmt.Errorf("%w: %d", domain.ErrTagNotFound, tagID)
			}
			if seen[tagID] {
				continue
			}
			seen[tagID] = true
			tags = append(tags, domain.ShiftTag{ID: nextID(), Status: true, Tag: tag})
		}

		sh := st.Shifts[i].Clone()
		sh.Tags = tags

		shifts := slices.Clone(st.Shifts)
		shifts[i] = sh
		st.Shifts = shifts
		updated = sh
		return eventFor(domain.EventShiftTagsUpdated, sh), nil
	})
	if err != nil {
		return domain.Shift{}, err
	}
	return updated.Clone(), nil
}

// AssignEmployee 用包装了 employee 的新候选人替换班次原有的候选人
func (s *Store) AssignEmployee(id string, employee domain.Employee) (domain.Shift, error) {
	var updated domain.Shift

	err := s.mutate("assign", func(st *State) (domain.Event, error) {
		i := indexOf(st.Shifts, id)
		if i < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		sh := st.Shifts[i].Clone()
		if err := scheduler.CheckEligibility(employee, sh.StartTZ, sh.EndTZ); err != nil {
			return domain.Event{}, err
		}
		sh.Candidate = &domain.Candidate{ID: s.idSource(st.Shifts)(), Employee: employee}

		shifts := slices.Clone(st.Shifts)
		shifts[i] = sh
		st.Shifts = shifts
		updated = sh
		return eventFor(domain.EventEmployeeAssigned, sh), nil
	})
	if err != nil {
		return domain.Shift{}, err
	}
	return updated.Clone(), nil
}

func (s *Store) UnassignEmployee(id string) (domain.Shift, error) {
	var updated domain.Shift

	err := s.mutate("unassign", func(st *State) (domain.Event, error) {
		i := indexOf(st.Shifts, id)
		if i < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		sh := st.Shifts[i].Clone()
		sh.Candidate = nil

		shifts := slices.Clone(st.Shifts)
		shifts[i] = sh
		st.Shifts = shifts
		updated = sh
		return eventFor(domain.EventEmployeeUnassigned, sh), nil
	})
	if err != nil {
		return domain.Shift{}, err
	}
	return updated.Clone(), nil
}

// SwapShifts 交换两个班次的候选人，时间、部门和 ID 均不变
func (s *Store) SwapShifts(idA, idB string) error {
	return s.mutate("swap", func(st *State) (domain.Event, error) {
		i, j := indexOf(st.Shifts, idA), indexOf(st.Shifts, idB)
		if i < 0 || j < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		a, b := st.Shifts[i].Clone(), st.Shifts[j].Clone()
		if i == j {
			return eventFor(domain.EventShiftsSwapped, a), nil
		}

		if a.Candidate != nil {
			if err := scheduler.CheckEligibility(a.Candidate.Employee, b.StartTZ, b.EndTZ); err != nil {
				return domain.Event{}, err
			}
		}
		if b.Candidate != nil {
			if err := scheduler.CheckEligibility(b.Candidate.Employee, a.StartTZ, a.EndTZ); err != nil {
				return domain.Event{}, err
			}
		}
		a.Candidate, b.Candidate = b.Candidate, a.Candidate

		shifts := slices.Clone(st.Shifts)
		shifts[i], shifts[j] = a, b
		st.Shifts = shifts
		return eventFor(domain.EventShiftsSwapped, a, b), nil
	})
}

// MoveShiftTo 把源班次的候选人移到目标班次，目标原有的候选人被丢弃，源班次变为未分配
func (s *Store) MoveShiftTo(sourceID, targetID string) error {
	return s.mutate("move", func(st *State) (domain.Event, error) {
		i, j := indexOf(st.Shifts, sourceID), indexOf(st.Shifts, targetID)
		if i < 0 || j < 0 {
			return domain.Event{}, domain.ErrShiftNotFound
		}

		source, target := st.Shifts[i].Clone(), st.Shifts[j].Clone()
		if i == j {
			return eventFor(domain.EventShiftMoved, source), nil
		}

		if source.Candidate != nil {
			if err := scheduler.CheckEligibility(source.Candidate.Employee, target.StartTZ, target.EndTZ); err != nil {
				return domain.Event{}, err
			}
		}
		target.Candidate = source.Candidate
		source.Candidate = nil

		shifts := slices.Clone(st.Shifts)
		shifts[i], shifts[j] = source, target
		st.Shifts = shifts
		return eventFor(domain.EventShiftMoved, source, target), nil
	})
}

// GenerateTemplate 删除该部门已有的所有班次，然后在"本周"生成新的班次；其他部门不受影响
func (s *Store) GenerateTemplate(params scheduler.TemplateParams) ([]domain.Shift, error) {
	var generated []domain.Shift

	err := s.mutate("template", func(st *State) (domain.Event, error) {
		weekStart := week.StartOf(s.anchorDate())
		created, err := scheduler.GenerateTemplate(params, weekStart, s.templateStartHour, s.idSource(st.Shifts))
		if err != nil {
			return domain.Event{}, err
		}

		shifts := make([]domain.Shift, 0, len(st.Shifts)+len(created))
		for _, sh := range st.Shifts {
			if sh.Department.ID != params.Department.ID {
				shifts = append(shifts, sh)
			}
		}
		shifts = append(shifts, created...)
		st.Shifts = shifts
		generated = created
		return eventFor(domain.EventTemplateGenerated, created...), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneShifts(generated), nil
}

// AutoFill 为当前周内的空缺班次自动分配员工，返回被填充的班次
func (s *Store) AutoFill(params scheduler.Parameters) ([]domain.Shift, error) {
	var filled []domain.Shift

	err := s.mutate("autofill", func(st *State) (domain.Event, error) {
		filler, err := scheduler.NewAutoFiller(params, st.Employees, week.InWeek(st.Shifts, st.ReferenceDate))
		if err != nil {
			return domain.Event{}, err
		}
		picks := filler.Fill()

		newID := s.idSource(st.Shifts)
		shifts := slices.Clone(st.Shifts)
		filled = make([]domain.Shift, 0, len(picks))
		for i := range shifts {
			employee, ok := picks[shifts[i].ID]
			if !ok {
				continue
			}
			sh := shifts[i].Clone()
			sh.Candidate = &domain.Candidate{ID: newID(), Employee: employee}
			shifts[i] = sh
			filled = append(filled, sh)
		}
		st.Shifts = shifts

		s.logger.Info("自动排班完成", "filled", len(filled))
		return eventFor(domain.EventShiftsAutoFilled, filled...), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneShifts(filled), nil
}
