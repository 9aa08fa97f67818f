package handler

import (
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/export"
)

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取本周排班成功", h.store.Board())
}

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	board := h.store.Board()

	data, err := export.Board(board)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(board)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logInternalServerError(r, err)
	}
}
