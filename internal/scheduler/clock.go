package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// ParseClock 解析 "15:04" 或 "15:04:05" 格式的时刻
func ParseClock(s string) (hour, minute int, err error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("时间格式错误: %q", s)
}

// CombineDateAndClock 将日期与时刻组合成 date 所在时区的时间点
func CombineDateAndClock(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

func ValidateShiftTime(start, end time.Time) error {
	if !end.After(start) {
		return domain.ErrInvalidTimeRange
	}
	return nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NewShift 构造一个新班次，工作时长由起止时间之差计算
func NewShift(id string, department domain.BranchWorkingArea, start, end time.Time, candidate *domain.Candidate) domain.Shift {
	return domain.Shift{
		ID:                   id,
		Type:                 "shift",
		StartTZ:              start,
		EndTZ:                end,
		WorkingTimeInMinutes: int(end.Sub(start).Minutes()),
		TimeFrame:            domain.TimeFrame{Gte: start, Lte: end},
		Timezone:             start.Location().String(),
		EmployeeCount:        1,
		Pause:                "00:00",
		Status:               true,
		Department:           department,
		Candidate:            candidate,
		Tags:                 []domain.ShiftTag{},
	}
}
