package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/progarden/garden-crm/internal/platform/httpx"
)

// Handler wires the dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.stats)
	r.Get("/dashboard/sales-trend", h.salesTrend)
	r.Get("/dashboard/expense-breakdown", h.expenseBreakdown)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) salesTrend(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.RespondError(w, fmt.Errorf("%w: days must be a positive integer", httpx.ErrValidation))
			return
		}
		days = parsed
	}

	points, err := h.service.SalesTrend(r.Context(), days)
	if err != nil {
		h.logger.Error("sales trend", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if points == nil {
		points = []TrendPoint{}
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) expenseBreakdown(w http.ResponseWriter, r *http.Request) {
	slices, err := h.service.ExpenseBreakdown(r.Context())
	if err != nil {
		h.logger.Error("expense breakdown", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if slices == nil {
		slices = []ExpenseSlice{}
	}
	httpx.JSON(w, http.StatusOK, slices)
}
