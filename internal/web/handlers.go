package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
)

const healthTimeout = 2 * time.Second

// handleHealth pings the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "unreachable",
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// handleHistory lists recent imports, newest first. Query parameters:
// table, limit and offset.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := postgres.ImportLogOptions{
		TargetTable: q.Get("table"),
		Limit:       queryInt(q.Get("limit")),
		Offset:      queryInt(q.Get("offset")),
	}

	if s.importLog == nil {
		writeJSON(w, r, http.StatusOK, &postgres.ImportLogPage{Entries: []postgres.ImportLogEntry{}})
		return
	}

	page, err := s.importLog.ListImports(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

// queryInt parses a non-negative integer parameter; anything else is 0.
func queryInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
