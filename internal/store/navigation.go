package store

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// 周导航只修改参考日期，不要求 store 已初始化

func (s *Store) GoToPreviousWeek() time.Time {
	return s.navigate(func(ref time.Time) time.Time { return ref.AddDate(0, 0, -7) })
}

func (s *Store) GoToNextWeek() time.Time {
	return s.navigate(func(ref time.Time) time.Time { return ref.AddDate(0, 0, 7) })
}

// GoToCurrentWeek 回到锚定日期所在的周（fixture 只包含一周的演示数据）
func (s *Store) GoToCurrentWeek() time.Time {
	return s.navigate(func(time.Time) time.Time { return s.anchorDate() })
}

func (s *Store) GoToDate(date time.Time) time.Time {
	return s.navigate(func(time.Time) time.Time { return date })
}

func (s *Store) navigate(next func(ref time.Time) time.Time) time.Time {
	s.mu.Lock()
	ref := next(s.state.ReferenceDate)
	s.state.ReferenceDate = ref
	ev := eventFor(domain.EventWeekChanged)
	ev.ReferenceDate = ref
	ev.At = s.now()
	s.mu.Unlock()

	s.metrics.RecordMutation("navigate")
	s.notify(ev)
	return ref
}
