package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"partyline/errors"
	"partyline/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface is already open per-deployment; origin policy belongs
	// to the proxy in front.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWebsocket authenticates the session token, upgrades, and hands the
// connection to a realtime client. Subscriptions happen through join_user /
// join_chat frames on the socket; disconnect tears all of them down.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.respondError(w, errors.ErrInvalidToken)
		return
	}
	userID, err := s.auth.VerifyToken(token)
	if err != nil {
		s.respondError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := realtime.NewClient(s.log, conn, s.registry, userID, s.cfg.ConnectionBufferSize, s.chats.CanJoin)
	s.log.Info("websocket connected", "connection_id", client.ConnectionID, "user_id", userID)
	client.Run(r.Context())
	s.log.Info("websocket disconnected", "connection_id", client.ConnectionID, "user_id", userID)
}
