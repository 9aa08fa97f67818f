// Package week 实现以周一为起点的周区间计算以及班次按部门/星期的分组
package week

import (
	"fmt"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays 按展示顺序（周一在前）排列
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("无效的星期: %q", s)
}

// Index 返回以周一为 0 的序号，无效值返回 -1
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// WeekdayOf 将 time.Weekday（周日为 0）映射到以周一开头的星期
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// StartOf 返回 ref 所在周的周一 00:00:00.000（使用 ref 的时区）
func StartOf(ref time.Time) time.Time {
	y, m, d := ref.Date()
	offset := (int(ref.Weekday()) + 6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, ref.Location())
}

// BoundsOf 返回 ref 所在周的周一 00:00:00.000 和周日 23:59:59.999
func BoundsOf(ref time.Time) (time.Time, time.Time) {
	start := StartOf(ref)
	y, m, d := start.Date()
	end := time.Date(y, m, d+6, 23, 59, 59, int(999*time.Millisecond), start.Location())
	return start, end
}

// DateOf 返回 weekStart 所在周中 day 对应的日期（00:00）
func DateOf(weekStart time.Time, day Weekday) time.Time {
	y, m, d := StartOf(weekStart).Date()
	return time.Date(y, m, d+day.Index(), 0, 0, 0, 0, weekStart.Location())
}

func Contains(ref, t time.Time) bool {
	start, end := BoundsOf(ref)
	return !t.Before(start) && !t.After(end)
}

// InWeek 过滤出开始时间落在 ref 所在周内的班次，保持原有顺序
func InWeek(shifts []domain.Shift, ref time.Time) []domain.Shift {
	start, end := BoundsOf(ref)
	result := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.StartTZ.Before(start) || s.StartTZ.After(end) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// Grouping: 部门 ID -> 星期 -> 按开始时间排序的班次
type Grouping map[int64]map[Weekday][]domain.Shift

// GroupByDepartmentAndDay 按 loc 中的日期归入星期，loc 应与筛选该周时使用的时区一致
func GroupByDepartmentAndDay(shifts []domain.Shift, loc *time.Location) Grouping {
	g := make(Grouping)
	for _, s := range shifts {
		dept := s.Department.ID
		if _, exists := g[dept]; !exists {
			g[dept] = make(map[Weekday][]domain.Shift)
		}
		day := WeekdayOf(s.StartTZ.In(loc))
		g[dept][day] = append(g[dept][day], s)
	}

	for _, days := range g {
		for _, list := range days {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].StartTZ.Before(list[j].StartTZ)
			})
		}
	}
	return g
}

// SortDepartments 按工作区域名称排序（与浏览器的 localeCompare 行为一致），名称相同时按 ID 排序
func SortDepartments(departments []domain.BranchWorkingArea) {
	c := collate.New(language.Und)
	sort.SliceStable(departments, func(i, j int) bool {
		if cmp := c.CompareString(departments[i].Name(), departments[j].Name()); cmp != 0 {
			return cmp < 0
		}
		return departments[i].ID < departments[j].ID
	})
}
