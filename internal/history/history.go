package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"Yplus/internal/auth"
	"Yplus/internal/calc/yplus"
	"Yplus/internal/logging"
	"Yplus/internal/repo"

	"github.com/gorilla/mux"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handler struct {
	Repo  repo.Repository
	Style yplus.Style
}

type SaveRequest struct {
	Label string      `json:"label"`
	Input yplus.Input `json:"input"`
}

type Entry struct {
	repo.Calculation
	Lines    []yplus.Line `json:"lines"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (h *Handler) entry(c repo.Calculation) Entry {
	return Entry{
		Calculation: c,
		Lines:       yplus.Lines(c.Result, h.Style),
		Warnings:    yplus.Applicability(c.Input),
	}
}

// Save calculates the posted input and stores it for the current user.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := yplus.Evaluate(req.Input, h.Style)
	if err != nil {
		yplus.WriteJSON(w, yplus.StatusFor(err), yplus.NewErrorResponse(err))
		return
	}

	c := repo.Calculation{UserID: userID, Label: req.Label, Input: req.Input, Result: res.Result}
	id, err := h.Repo.SaveCalculation(r.Context(), c)
	if err != nil {
		log := logging.Logger()
		log.Error().Err(err).Int("user_id", userID).Msg("save calculation")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	saved, err := h.Repo.GetCalculation(r.Context(), userID, id)
	if err != nil {
		log := logging.Logger()
		log.Warn().Err(err).Int("user_id", userID).Int("id", id).Msg("reload saved calculation")
		c.ID = id
		c.CreatedAt = time.Now().UTC()
		saved = c
	}
	yplus.WriteJSON(w, http.StatusCreated, h.entry(saved))
}

// List returns the current user's calculations, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	calcs, err := h.Repo.ListCalculations(r.Context(), userID, limit)
	if err != nil {
		log := logging.Logger()
		log.Error().Err(err).Int("user_id", userID).Msg("list calculations")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	entries := make([]Entry, 0, len(calcs))
	for _, c := range calcs {
		entries = append(entries, h.entry(c))
	}
	yplus.WriteJSON(w, http.StatusOK, entries)
}

// Get returns one calculation by the {id} route variable.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.Repo.GetCalculation(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	yplus.WriteJSON(w, http.StatusOK, h.entry(c))
}
