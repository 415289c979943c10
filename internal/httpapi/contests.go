package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"codemate/internal/domain/model"
	"codemate/internal/usecase"
)

func (s *Server) codechefContests(w http.ResponseWriter, r *http.Request) {
	data, err := s.codechef.Raw(r.Context())
	if err != nil {
		var upstream *model.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode != 0 {
			msg := upstream.Body
			if msg == "" {
				msg = "CodeChef responded with an error"
			}
			writeJSON(w, upstream.StatusCode, map[string]string{"message": msg})
			return
		}
		s.logger.Error(r.Context(), "codechef proxy failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to fetch CodeChef contests"})
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) upcomingContests(w http.ResponseWriter, r *http.Request) {
	filter := usecase.ContestFilter{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("platform"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			platform := model.Platform(strings.ToLower(strings.TrimSpace(p)))
			switch platform {
			case model.PlatformCodeforces, model.PlatformCodeChef, model.PlatformLeetCode:
				filter.Platforms = append(filter.Platforms, platform)
			case "":
			default:
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown platform: " + string(platform)})
				return
			}
		}
	}

	contests, err := s.contests.Upcoming(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to fetch contests"})
		return
	}
	writeJSON(w, http.StatusOK, contests)
}
