package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

func (h *Handler) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftsPerDay     int      `json:"shiftsPerDay" validate:"required,gte=1,lte=24"`
		ShiftLengthHours int      `json:"shiftLengthHours" validate:"required,gte=1,lte=24"`
		SelectedDays     []string `json:"selectedDays" validate:"required,min=1,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
		DepartmentID     int64    `json:"departmentId" validate:"required"`
		EmployeeID       string   `json:"employeeId"`
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

	params := scheduler.TemplateParams{
		ShiftsPerDay:     req.ShiftsPerDay,
		ShiftLengthHours: req.ShiftLengthHours,
		SelectedDays:     make([]week.Weekday, 0, len(req.SelectedDays)),
		Department:       department,
	}
	for _, d := range req.SelectedDays {
		day, err := week.ParseWeekday(d)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		params.SelectedDays = append(params.SelectedDays, day)
	}

	if req.EmployeeID != "" {
		employee, err := h.store.Employee(req.EmployeeID)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		params.Employee = &employee
	}

	shifts, err := h.store.GenerateTemplate(params)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成排班模板成功", shifts)
}
