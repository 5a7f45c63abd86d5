package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"partyline/errors"
)

var validate = validator.New()

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("writing response body", "error", err)
	}
}

// decode parses the JSON body into dst and runs its validation tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, errors.ErrValidation)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

// respondError maps sentinel errors onto the status taxonomy. Anything
// unmapped is an internal error and is logged, not leaked.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrValidation),
		stderrors.Is(err, errors.ErrSelfReference),
		stderrors.Is(err, errors.ErrAlreadyFriends),
		stderrors.Is(err, errors.ErrDuplicateRequest),
		stderrors.Is(err, errors.ErrInvalidMessageType):
		status = http.StatusBadRequest
	case stderrors.Is(err, errors.ErrUsernameTaken):
		status = http.StatusConflict
	case stderrors.Is(err, errors.ErrUserNotFound),
		stderrors.Is(err, errors.ErrChatNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrNotChatMember):
		status = http.StatusForbidden
	case stderrors.Is(err, errors.ErrInvalidCredentials),
		stderrors.Is(err, errors.ErrInvalidToken):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		s.respond(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}
