package marketing

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/progarden/garden-crm/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the marketing tracker.
type Handler struct {
	logger    *slog.Logger
	repo      *Repository
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountRoutes registers marketing routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/marketing", h.list)
	r.Post("/marketing", h.create)
	r.Get("/marketing/{id}", h.get)
	r.Put("/marketing/{id}", h.update)
	r.Delete("/marketing/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list marketing posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Post{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	post := Post{
		Platform:      req.Platform,
		PostDate:      req.PostDate,
		ContentType:   req.ContentType,
		Description:   req.Description,
		Engagement:    req.Engagement,
		SalesFromPost: req.SalesFromPost,
		Notes:         req.Notes,
	}
	id, err := h.repo.Create(r.Context(), post)
	if err != nil {
		h.logger.Error("create marketing post", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	post.ID = id
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req UpdatePostRequest
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
		h.logger.Error("update marketing post", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	post, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete marketing post", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func buildUpdates(req UpdatePostRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Platform != nil {
		updates["platform"] = *req.Platform
	}
	if req.PostDate != nil {
		updates["post_date"] = req.PostDate.Time
	}
	if req.ContentType != nil {
		updates["content_type"] = *req.ContentType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Engagement != nil {
		updates["engagement"] = *req.Engagement
	}
	if req.SalesFromPost != nil {
		updates["sales_from_post"] = *req.SalesFromPost
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
