package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"partyline/domain"
)

type credentialsRequest struct {
	Username      string `json:"username" validate:"required"`
	CredentialRef string `json:"credentialRef" validate:"required"`
}

type searchRequest struct {
	Username string `json:"username" validate:"required"`
}

type sessionResponse struct {
	domain.User
	Token string `json:"token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.CredentialRef)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, token, err := s.auth.Authenticate(r.Context(), req.Username, req.CredentialRef)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (s *Server) searchUser(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.identity.SearchByUsername(req.Username)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, user)
}

// updateUser applies a partial profile update. The patch uses pointer
// presence, so {"status": ""} clears the status while an absent field
// leaves it alone.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if !s.decode(w, r, &patch) {
		return
	}

	user, err := s.identity.UpdateProfile(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, user)
}
