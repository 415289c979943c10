package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"codemate/internal/domain/model"
)

const genericProblemError = "Failed to fetch CF problem."

type problemError struct {
	Error string `json:"error"`
	URL   string `json:"url,omitempty"`
}

func (s *Server) problem(mode model.FetchMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		ref := model.ProblemRef{ContestID: vars["contestId"], Index: vars["index"]}

		statement, err := s.statements.Get(r.Context(), ref, mode)
		if err != nil {
			status, body := problemErrorResponse(err)
			writeJSON(w, status, body)
			return
		}
		writeJSON(w, http.StatusOK, statement)
	}
}

func problemErrorResponse(err error) (int, problemError) {
	var exhausted *model.ExhaustedError
	if errors.As(err, &exhausted) {
		return http.StatusBadGateway, problemError{Error: exhausted.Error(), URL: exhausted.FirstURL}
	}

	var notFound *model.StatementNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusServiceUnavailable, problemError{Error: notFound.Error(), URL: notFound.URL}
	}

	return http.StatusInternalServerError, problemError{Error: genericProblemError}
}
