package deliveries

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// Handler wires HTTP endpoints for the delivery log.
type Handler struct {
	logger    *slog.Logger
	repo      *Repository
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountRoutes registers delivery routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/deliveries", h.list)
	r.Post("/deliveries", h.create)
	r.Get("/deliveries/{id}", h.get)
	r.Put("/deliveries/{id}", h.update)
	r.Delete("/deliveries/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list deliveries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Delivery{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	delivery, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, delivery)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeliveryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	date := shared.Today()
	if req.Date != nil {
		date = *req.Date
	}
	delivery := Delivery{
		Date:           date,
		CustomerName:   req.CustomerName,
		Location:       req.Location,
		ItemDelivered:  req.ItemDelivered,
		Quantity:       req.Quantity,
		DeliveryPerson: req.DeliveryPerson,
		DeliveryCost:   req.DeliveryCost,
		Notes:          req.Notes,
	}
	id, err := h.repo.Create(r.Context(), delivery)
	if err != nil {
		h.logger.Error("create delivery", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	delivery.ID = id
	httpx.JSON(w, http.StatusCreated, delivery)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req UpdateDeliveryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	updates := buildUpdates(req)
	if err := h.repo.Update(r.Context(), id, updates); err != nil {
		h.logger.Error("update delivery", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	delivery, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, delivery)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete delivery", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func buildUpdates(req UpdateDeliveryRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Date != nil {
		updates["date"] = req.Date.Time
	}
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ItemDelivered != nil {
		updates["item_delivered"] = *req.ItemDelivered
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.DeliveryPerson != nil {
		updates["delivery_person"] = *req.DeliveryPerson
	}
	if req.DeliveryCost != nil {
		updates["delivery_cost"] = *req.DeliveryCost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	return updates
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	return id, nil
}
