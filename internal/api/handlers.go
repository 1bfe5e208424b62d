package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *journal.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *journal.Service) *Handler {
	return &Handler{svc: svc}
}

// entryID extracts and parses the {id} URL parameter.
func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// decodeEntryRequest reads, decodes, and validates an entry body.
func decodeEntryRequest(w http.ResponseWriter, r *http.Request) (*EntryRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return nil, false
	}
	return &req, true
}

func (req *EntryRequest) params() journal.EntryParams {
	return journal.EntryParams{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    req.Tags,
		Date:    models.ParseDay(req.Date),
		Time:    req.Time,
	}
}

// ListEntries handles GET /api/entries. With ?day=2006-01-02 it returns
// that day's entries; otherwise all entries newest first, capped by ?limit.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if dayStr := q.Get("day"); dayStr != "" {
		day := models.ParseDay(dayStr)
		if day.IsZero() {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid day"))
			return
		}
		items, err := h.svc.EntriesOn(r.Context(), day)
		if err != nil {
			slog.Error("list day entries failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: len(items)})
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	items, total, err := h.svc.List(r.Context(), limit)
	if err != nil {
		slog.Error("list entries failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: total})
}

// GetEntry handles GET /api/entries/{id}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid entry id"))
		return
	}
	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get entry failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateEntry handles POST /api/entries.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyContent) {
			writeJSON(w, http.StatusBadRequest, errorBody("entry content is empty"))
		} else {
			slog.Error("create entry failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles PUT /api/entries/{id}.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid entry id"))
		return
	}
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrEmptyContent):
			writeJSON(w, http.StatusBadRequest, errorBody("entry content is empty"))
		default:
			slog.Error("update entry failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/entries/{id}.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid entry id"))
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete entry failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Calendar handles GET /api/calendar. The ?month=YYYY-MM parameter defaults
// to the current month.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if m := r.URL.Query().Get("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid month, want YYYY-MM"))
			return
		}
		year, month = t.Year(), t.Month()
	}
	days, err := h.svc.MonthActivity(r.Context(), year, month)
	if err != nil {
		slog.Error("calendar failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CalendarResponse{
		Month: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Days:  days,
	})
}

// Stats handles GET /api/stats: the full dashboard payload.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.Dashboard(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
