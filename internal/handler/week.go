package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

type weekResponse struct {
	ReferenceDate time.Time `json:"referenceDate"`
	WeekStart     time.Time `json:"weekStart"`
	WeekEnd       time.Time `json:"weekEnd"`
}

func newWeekResponse(ref time.Time) weekResponse {
	start, end := week.BoundsOf(ref)
	return weekResponse{
		ReferenceDate: ref,
		WeekStart:     start,
		WeekEnd:       end,
	}
}

func (h *Handler) GoToPreviousWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "已切换到上一周", newWeekResponse(h.store.GoToPreviousWeek()))
}

func (h *Handler) GoToNextWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "已切换到下一周", newWeekResponse(h.store.GoToNextWeek()))
}

func (h *Handler) GoToCurrentWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "已切换到本周", newWeekResponse(h.store.GoToCurrentWeek()))
}

func (h *Handler) GoToDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.ParseInLocation(time.DateOnly, req.Date, h.store.Location())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "已切换周", newWeekResponse(h.store.GoToDate(date)))
}
