package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// 未成年员工只能被安排在 [06:00, 20:00] 内的班次
const (
	UnderageEarliestMinute = 6 * 60
	UnderageLatestMinute   = 20 * 60
)

type Exclusion struct {
	Employee domain.Employee `json:"employee"`
	Reasons  []string        `json:"reasons"`
}

func underageReasons(start, end time.Time) []string {
	var reasons []string

	s, e := minuteOfDay(start), minuteOfDay(end)
	earliest, latest := formatMinute(UnderageEarliestMinute), formatMinute(UnderageLatestMinute)

	if s < UnderageEarliestMinute {
		reasons = append(reasons, fmt.Sprintf("未成年员工的班次不能早于 %s 开始（开始时间 %s）", earliest, formatMinute(s)))
	}
	if s > UnderageLatestMinute {
		reasons = append(reasons, fmt.Sprintf("未成年员工的班次不能晚于 %s 开始（开始时间 %s）", latest, formatMinute(s)))
	}
	if e < UnderageEarliestMinute {
		reasons = append(reasons, fmt.Sprintf("未成年员工的班次不能早于 %s 结束（结束时间 %s）", earliest, formatMinute(e)))
	}
	if e > UnderageLatestMinute {
		reasons = append(reasons, fmt.Sprintf("未成年员工的班次不能晚于 %s 结束（结束时间 %s）", latest, formatMinute(e)))
	}
	return reasons
}

// CheckEligibility 检查员工能否被安排到 [start, end] 的班次
func CheckEligibility(employee domain.Employee, start, end time.Time) error {
	if !employee.IsUnderage {
		return nil
	}
	if reasons := underageReasons(start, end); len(reasons) > 0 {
		return &domain.IneligibleError{EmployeeID: employee.ID, Reasons: reasons}
	}
	return nil
}

// EligibleEmployees 将员工划分为可分配与被排除两组，被排除的员工附带原因
func EligibleEmployees(employees []domain.Employee, start, end time.Time) ([]domain.Employee, []Exclusion) {
	eligible := make([]domain.Employee, 0, len(employees))
	excluded := make([]Exclusion, 0)

	for _, e := range employees {
		if !e.IsUnderage {
			eligible = append(eligible, e)
			continue
		}
		if reasons := underageReasons(start, end); len(reasons) > 0 {
			excluded = append(excluded, Exclusion{Employee: e, Reasons: reasons})
			continue
		}
		eligible = append(eligible, e)
	}

	return eligible, excluded
}
