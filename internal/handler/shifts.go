package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/store"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

// GetShifts 返回所有班次，scope=week 时只返回当前参考周内的班次
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()

	switch r.URL.Query().Get("scope") {
	case "", "all":
		h.successResponse(w, r, "获取班次列表成功", st.Shifts)
	case "week":
		h.successResponse(w, r, "获取班次列表成功", week.InWeek(st.Shifts, st.ReferenceDate))
	default:
		h.errorResponse(w, r, "无效的 scope 参数")
	}
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DepartmentID int64  `json:"departmentId" validate:"required"`
		Date         string `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime    string `json:"startTime" validate:"required,datetime=15:04"`
		EndTime      string `json:"endTime" validate:"required,datetime=15:04"`
		EmployeeID   string `json:"employeeId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	department, err := h.store.Department(req.DepartmentID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, h.store.Location())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	in := store.NewShift{
		Department: department,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.EmployeeID != "" {
		employee, err := h.store.Employee(req.EmployeeID)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		in.Employee = &employee
	}

	sh, err := h.store.AddShift(in)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", sh)
}

func (h *Handler) PurgeShifts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.PurgeShifts(); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "已清空所有班次", nil)
}

func (h *Handler) SwapShifts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstShiftID  string `json:"firstShiftId" validate:"required"`
		SecondShiftID string `json:"secondShiftId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.SwapShifts(req.FirstShiftID, req.SecondShiftID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "交换班次成功", h.shiftsByID(req.FirstShiftID, req.SecondShiftID))
}

func (h *Handler) MoveShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceShiftID string `json:"sourceShiftId" validate:"required"`
		TargetShiftID string `json:"targetShiftId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.MoveShiftTo(req.SourceShiftID, req.TargetShiftID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动班次成功", h.shiftsByID(req.SourceShiftID, req.TargetShiftID))
}

func (h *Handler) shiftsByID(ids ...string) []domain.Shift {
	shifts := make([]domain.Shift, 0, len(ids))
	for _, id := range ids {
		if sh, err := h.store.Shift(id); err == nil {
			shifts = append(shifts, sh)
		}
	}
	return shifts
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	h.successResponse(w, r, "获取班次成功", sh)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	var req struct {
		DepartmentID *int64  `json:"departmentId" validate:"omitempty,gt=0"`
		Weekday      *string `json:"weekday" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
		StartTime    *string `json:"startTime" validate:"omitempty,datetime=15:04"`
		EndTime      *string `json:"endTime" validate:"omitempty,datetime=15:04"`
		Note         *string `json:"note"`
		Publish      *bool   `json:"publish"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := domain.ShiftPatch{
		Note:    req.Note,
		Publish: req.Publish,
	}

	if req.DepartmentID != nil {
		department, err := h.store.Department(*req.DepartmentID)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		patch.Department = &department
	}

	// 星期和时间都在班次原来所在的周内重新计算
	if req.Weekday != nil || req.StartTime != nil || req.EndTime != nil {
		date := sh.StartTZ
		if req.Weekday != nil {
			day, err := week.ParseWeekday(*req.Weekday)
			if err != nil {
				h.badRequest(w, r, err)
				return
			}
			date = week.DateOf(week.StartOf(sh.StartTZ), day)
		}

		startClock, endClock := sh.StartTZ.Format("15:04"), sh.EndTZ.Format("15:04")
		if req.StartTime != nil {
			startClock = *req.StartTime
		}
		if req.EndTime != nil {
			endClock = *req.EndTime
		}

		start, err := scheduler.CombineDateAndClock(date, startClock)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		// 只改星期时保留原有时长，跨午夜的班次不会因此变成无效区间
		end := start.Add(sh.EndTZ.Sub(sh.StartTZ))
		if req.StartTime != nil || req.EndTime != nil {
			end, err = scheduler.CombineDateAndClock(date, endClock)
			if err != nil {
				h.badRequest(w, r, err)
				return
			}
		}
		patch.StartTZ = &start
		patch.EndTZ = &end
	}

	updated, err := h.store.UpdateShift(sh.ID, patch)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次成功", updated)
}

func (h *Handler) UpdateShiftTags(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	var req struct {
		TagIDs []int64 `json:"tagIds" validate:"required,dive,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateShiftTags(sh.ID, req.TagIDs)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次标签成功", updated)
}

func (h *Handler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	var req struct {
		EmployeeID string `json:"employeeId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.store.Employee(req.EmployeeID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	updated, err := h.store.AssignEmployee(sh.ID, employee)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "分配员工成功", updated)
}

func (h *Handler) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	updated, err := h.store.UnassignEmployee(sh.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "取消分配成功", updated)
}

func (h *Handler) GetEligibleEmployees(w http.ResponseWriter, r *http.Request) {
	sh := r.Context().Value(ShiftCtx).(domain.Shift)

	eligible, excluded := h.store.EligibleEmployees(sh.StartTZ, sh.EndTZ)

	h.successResponse(w, r, "获取可分配员工成功", map[string]any{
		"eligible": eligible,
		"excluded": excluded,
	})
}
