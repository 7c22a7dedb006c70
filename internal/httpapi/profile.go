package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gravitas-games/tacticsd/internal/engine"
)

func parsePagination(r *http.Request) (limit, skip int) {
	limit, skip = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	return limit, skip
}

type activeMatchesResponse struct {
	Total int             `json:"total"`
	Limit int             `json:"limit"`
	Skip  int             `json:"skip"`
	Items []*engine.Match `json:"items"`
}

// handleActiveMatches implements `GET /profile/active-matches`.
func (a *API) handleActiveMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, tokenMissingErr())
		return
	}
	limit, skip := parsePagination(r)
	items, total, err := a.Service.Matches.ListActiveByUser(r.Context(), id.UserID, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activeMatchesResponse{Total: total, Limit: limit, Skip: skip, Items: items})
}

type historicMatchesResponse struct {
	Total int                       `json:"total"`
	Limit int                       `json:"limit"`
	Skip  int                       `json:"skip"`
	Items []*engine.HistoricalMatch `json:"items"`
}

// handleHistoricMatches implements `GET /profile/historic-matches`.
func (a *API) handleHistoricMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, tokenMissingErr())
		return
	}
	limit, skip := parsePagination(r)
	items, total, err := a.Service.History.ListByUser(r.Context(), id.UserID, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historicMatchesResponse{Total: total, Limit: limit, Skip: skip, Items: items})
}
