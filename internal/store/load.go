package store

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/metrics"
)

// LoadShifts 读取 fixture 并用其中的班次替换当前班次
func (s *Store) LoadShifts(ctx context.Context) error {
	return s.load(ctx, true)
}

// InitializeEmpty 只从 fixture 中获取员工、部门、标签和参考日期，班次列表为空
func (s *Store) InitializeEmpty(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *Store) load(ctx context.Context, withShifts bool) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state.Loading = true
	s.mu.Unlock()

	start := time.Now()
	fx, err := s.loader.Load(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	if gen != s.generation {
		// 在此期间已经开始了新的加载，本次结果作废
		s.mu.Unlock()
		s.metrics.RecordLoad(metrics.LoadDiscarded, elapsed)
		s.logger.Info("丢弃过期的排班数据加载结果", "generation", gen)
		return domain.ErrStaleLoad
	}
	s.state.Loading = false

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.mu.Unlock()
			s.metrics.RecordLoad(metrics.LoadDiscarded, elapsed)
			s.logger.Info("排班数据加载已取消", "error", ctxErr)
			return ctxErr
		}
		s.state.Error = err.Error()
		s.mu.Unlock()
		s.metrics.RecordLoad(metrics.LoadFailure, elapsed)
		s.logger.Error("加载排班数据失败", "error", err)
		return err
	}

	if withShifts {
		s.state.Shifts = cloneShifts(fx.Shifts)
	} else {
		s.state.Shifts = []domain.Shift{}
	}
	s.state.Employees = append([]domain.Employee{}, fx.Employees...)
	s.state.Departments = append([]domain.BranchWorkingArea{}, fx.Departments...)
	s.state.Tags = append([]domain.Tag{}, fx.Tags...)
	if fx.ReferenceDate.IsZero() {
		s.state.ReferenceDate = s.anchorDate()
	} else {
		s.state.ReferenceDate = fx.ReferenceDate
	}
	s.state.Error = ""
	s.state.Initialized = true

	evType := domain.EventShiftsLoaded
	if !withShifts {
		evType = domain.EventStoreInitialized
	}
	ev := eventFor(evType)
	ev.ReferenceDate = s.state.ReferenceDate
	ev.At = s.now()
	count := len(s.state.Shifts)
	s.mu.Unlock()

	s.metrics.RecordLoad(metrics.LoadSuccess, elapsed)
	s.metrics.SetShiftCount(count)
	s.logger.Info("排班数据加载完成", "shifts", count, "employees", len(fx.Employees), "departments", len(fx.Departments))
	s.notify(ev)
	return nil
}
