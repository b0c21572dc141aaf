package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/bookings"
	"skillswap/internal/exporter"
	"skillswap/internal/skills"
)

// SkillHandler serves the skill catalog and booking endpoints.
type SkillHandler struct {
	skills   *skills.Service
	bookings *bookings.Service
	logger   *slog.Logger
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(skillService *skills.Service, bookingService *bookings.Service, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{
		skills:   skillService,
		bookings: bookingService,
		logger:   logger,
	}
}

// List handles GET /api/skills
// Optional query params: category filters by exact category ("All" and empty
// return everything), provider filters by provider name substring.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider != "" {
		result, err := h.skills.SearchByProvider(r.Context(), provider)
		if err != nil {
			h.logger.Error("failed to search skills", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load skills")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"skills": result})
		return
	}

	category := r.URL.Query().Get("category")
	result, err := h.skills.List(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list skills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"skills": result})
}

// Categories handles GET /api/skills/categories
// Returns the filter options in catalog order, "All" first.
func (h *SkillHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.skills.Categories(r.Context())
	if err != nil {
		h.logger.Error("failed to derive categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Popular handles GET /api/skills/popular
// Returns the top-rated skills. The limit query param caps the result; it
// defaults when absent or invalid.
func (h *SkillHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.skills.Popular(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load popular skills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"skills": result})
}

// Get handles GET /api/skills/{skillID}
func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "skillID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	skill, err := h.skills.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, skills.ErrNotFound) {
			writeError(w, http.StatusNotFound, "skill not found")
			return
		}
		h.logger.Error("failed to load skill", "skill_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load skill")
		return
	}

	writeJSON(w, http.StatusOK, skill)
}

// Export handles GET /api/skills/export
// Streams the full catalog as a CSV download.
func (h *SkillHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.skills.List(r.Context(), "")
	if err != nil {
		h.logger.Error("failed to load skills for export", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="skills.csv"`)

	if err := exporter.NewCSVExporter().Export(w, result); err != nil {
		h.logger.Error("failed to write skill export", "error", err)
	}
}

type bookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Book handles POST /api/skills/{skillID}/bookings
// Accepts a booking request for a skill session and returns a confirmation.
func (h *SkillHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "skillID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	var req bookingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	confirmation, err := h.bookings.Submit(r.Context(), id, bookings.Request{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, skills.ErrNotFound):
			writeError(w, http.StatusNotFound, "skill not found")
		default:
			h.logger.Error("failed to submit booking", "skill_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to submit booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}
