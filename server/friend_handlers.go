package server

import (
	"net/http"

	"partyline/errors"
)

type friendRequestRequest struct {
	FromUserID string `json:"fromUserId" validate:"required"`
	ToUsername string `json:"toUsername" validate:"required"`
}

type friendDecisionRequest struct {
	UserID     string `json:"userId" validate:"required"`
	FromUserID string `json:"fromUserId" validate:"required"`
}

func (s *Server) friendsOverview(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.respondError(w, errors.ErrValidation)
		return
	}

	overview, err := s.identity.FriendsOverview(userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, overview)
}

func (s *Server) sendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequestRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.friends.SendRequest(r.Context(), req.FromUserID, req.ToUsername); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) acceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendDecisionRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.friends.Accept(req.UserID, req.FromUserID); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) rejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendDecisionRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.friends.Reject(req.UserID, req.FromUserID); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}
