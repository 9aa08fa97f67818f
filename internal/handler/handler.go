package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/store"
)

// DepartmentSource 供新增班次对话框预取部门列表，不修改 store
type DepartmentSource interface {
	Departments(ctx context.Context) ([]domain.BranchWorkingArea, error)
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	translator  ut.Translator
	store       *store.Store
	departments DepartmentSource
	gatherer    prometheus.Gatherer
	limiter     *RateLimiter

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, st *store.Store, departments DepartmentSource, gatherer prometheus.Gatherer) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	h := &Handler{
		validate:    validate,
		config:      cfg,
		translator:  trans,
		store:       st,
		departments: departments,
		gatherer:    gatherer,

		Mux: chi.NewRouter(),
	}
	if cfg.RateLimit.Enabled {
		h.limiter = NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return h, nil
}

// Close 停止限流器的后台清理
func (h *Handler) Close() {
	if h.limiter != nil {
		h.limiter.Stop()
	}
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	if h.gatherer != nil {
		h.Mux.Method("GET", "/metrics", metrics.Handler(h.gatherer))
	}

	h.Mux.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}

		r.Route("/state", func(r chi.Router) {
			r.Get("/", h.GetState)
			r.Post("/load", h.LoadShifts)
			r.Post("/initialize-empty", h.InitializeEmpty)
		})

		r.Get("/employees", h.GetEmployees)
		r.Get("/departments", h.GetDepartments)
		r.Get("/tags", h.GetTags)
		r.Get("/fixture/departments", h.GetFixtureDepartments)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Get("/export", h.ExportSchedule)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.GetShifts)
			r.Post("/", h.CreateShift)
			r.Delete("/", h.PurgeShifts)
			r.Post("/swap", h.SwapShifts)
			r.Post("/move", h.MoveShift)
			r.Post("/auto-fill", h.AutoFill)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.Patch("/", h.UpdateShift)
				r.Put("/tags", h.UpdateShiftTags)
				r.Put("/assignment", h.AssignEmployee)
				r.Delete("/assignment", h.UnassignEmployee)
				r.Get("/eligible-employees", h.GetEligibleEmployees)
			})
		})

		r.Post("/templates/generate", h.GenerateTemplate)

		r.Route("/week", func(r chi.Router) {
			r.Put("/", h.GoToDate)
			r.Post("/previous", h.GoToPreviousWeek)
			r.Post("/next", h.GoToNextWeek)
			r.Post("/current", h.GoToCurrentWeek)
		})
	})
}
