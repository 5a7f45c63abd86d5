package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"partyline/domain"
	"partyline/errors"
)

type createChatRequest struct {
	Type         domain.ChatType `json:"type" validate:"required"`
	Participants []string        `json:"participants" validate:"required,min=1"`
	Name         string          `json:"name"`
}

type sendMessageRequest struct {
	SenderID string             `json:"senderId" validate:"required"`
	Type     domain.MessageType `json:"type" validate:"required"`
	Content  string             `json:"content"`
}

func (s *Server) listChats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.respondError(w, errors.ErrValidation)
		return
	}

	views, err := s.chats.ListForUser(userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, views)
}

func (s *Server) createChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	chat, err := s.chats.Create(r.Context(), req.Type, req.Participants, req.Name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, chat)
}

// chatHistory returns the full ordered log. The requester comes from the
// userId query parameter and must be a participant.
func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	requesterID := r.URL.Query().Get("userId")
	if requesterID == "" {
		s.respondError(w, errors.ErrValidation)
		return
	}

	messages, err := s.messages.History(mux.Vars(r)["id"], requesterID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, messages)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !s.decode(w, r, &req) {
		return
	}

	msg, err := s.messages.Send(r.Context(), mux.Vars(r)["id"], req.SenderID, req.Type, req.Content)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, msg)
}
