package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
)

// AutoFill 用遗传算法为本周空缺的班次分配员工，未给出的参数取默认值
func (h *Handler) AutoFill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PopulationSize int      `json:"populationSize" validate:"omitempty,min=2"`
		MaxGenerations int      `json:"maxGenerations" validate:"omitempty,min=1,max=5000"`
		CrossoverRate  *float64 `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
		MutationRate   *float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
		EliteCount     *int     `json:"eliteCount" validate:"omitempty,min=0"`
		FairnessWeight *float64 `json:"fairnessWeight" validate:"omitempty,min=0"`
		Seed           int64    `json:"seed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params := scheduler.DefaultParameters()
	if req.PopulationSize > 0 {
		params.PopulationSize = req.PopulationSize
	}
	if req.MaxGenerations > 0 {
		params.MaxGenerations = req.MaxGenerations
	}
	if req.CrossoverRate != nil {
		params.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		params.MutationRate = *req.MutationRate
	}
	if req.EliteCount != nil {
		params.EliteCount = *req.EliteCount
	}
	if req.FairnessWeight != nil {
		params.FairnessWeight = *req.FairnessWeight
	}
	params.Seed = req.Seed

	shifts, err := h.store.AutoFill(params)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "自动排班成功", shifts)
}
