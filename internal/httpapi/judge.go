package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"codemate/internal/domain/model"
)

func (s *Server) judgeRun(w http.ResponseWriter, r *http.Request) {
	var req model.RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Language) == "" || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "language and code required"})
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		var unsupported *model.UnsupportedLanguageError
		var upstream *model.UpstreamError
		switch {
		case errors.As(err, &unsupported):
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": unsupported.Error()})
		case errors.As(err, &upstream) && upstream.StatusCode != 0:
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"message": fmt.Sprintf("Judge0 error %d", upstream.StatusCode),
				"detail":  detailValue(upstream.Body),
			})
		case errors.As(err, &upstream):
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"message": "Cannot reach Judge0",
				"detail":  upstream.Err.Error(),
			})
		default:
			s.logger.Error(r.Context(), "judge run failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) judgeHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.runner.Health(r.Context())
	if err != nil {
		body := map[string]any{"ok": false}
		var upstream *model.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode != 0 {
			body["code"] = upstream.StatusCode
		} else {
			body["error"] = err.Error()
		}
		writeJSON(w, http.StatusBadGateway, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": count})
}
