package handler

import (
	"net/http"
)

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取排班状态成功", h.store.State())
}

func (h *Handler) LoadShifts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadShifts(r.Context()); err != nil {
		h.loadError(w, r, err)
		return
	}

	h.successResponse(w, r, "加载排班数据成功", h.store.State())
}

func (h *Handler) InitializeEmpty(w http.ResponseWriter, r *http.Request) {
	if err := h.store.InitializeEmpty(r.Context()); err != nil {
		h.loadError(w, r, err)
		return
	}

	h.successResponse(w, r, "初始化空排班表成功", h.store.State())
}

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取员工列表成功", h.store.State().Employees)
}

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取部门列表成功", h.store.State().Departments)
}

func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取标签列表成功", h.store.State().Tags)
}

// GetFixtureDepartments 直接从 fixture 读取部门列表，供新增班次时使用
func (h *Handler) GetFixtureDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departments.Departments(r.Context())
	if err != nil {
		h.loadError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取部门列表成功", departments)
}
