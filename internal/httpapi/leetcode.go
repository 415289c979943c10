package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"codemate/internal/domain/model"
)

type graphQLRequest struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

func (s *Server) leetcodeProxy(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	data, err := s.leetcode.Query(r.Context(), req.Query, req.Variables)
	if err != nil {
		s.logger.Error(r.Context(), "leetcode proxy failed", "error", err)
		var details any = err.Error()
		var upstream *model.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode != 0 {
			details = detailValue(upstream.Body)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "LeetCode proxy failed",
			"details": details,
		})
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) userStats(platform model.Platform, failure string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		user := vars["handle"]
		if user == "" {
			user = vars["username"]
		}

		stats, err := s.stats.UserStats(r.Context(), platform, user)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
