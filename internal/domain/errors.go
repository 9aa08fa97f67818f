package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInitialized     = errors.New("排班表尚未初始化")
	ErrStaleLoad          = errors.New("加载结果已过期")
	ErrShiftNotFound      = errors.New("班次不存在")
	ErrTagNotFound        = errors.New("标签不存在")
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrDepartmentNotFound = errors.New("部门不存在")
	ErrDepartmentRequired = errors.New("必须指定部门")
	ErrInvalidTimeRange   = errors.New("结束时间必须晚于开始时间")
	ErrInvalidTemplate    = errors.New("模板参数无效")
	ErrInvalidParameters  = errors.New("自动排班参数无效")
)

// IneligibleError 表示员工因未成年时段限制无法被安排到该班次
type IneligibleError struct {
	EmployeeID string
	Reasons    []string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("员工 %s 不符合班次要求: %s", e.EmployeeID, strings.Join(e.Reasons, "; "))
}
