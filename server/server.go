// Package server exposes the REST surface and the realtime websocket
// endpoint over the chat core.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"partyline/contract"
	"partyline/realtime"
	"partyline/services"
)

type Config struct {
	Addr                 string
	ConnectionBufferSize int
	MaxUploadBytes       int64
	UploadDir            string
}

type Server struct {
	log        *slog.Logger
	httpServer *http.Server

	auth     contract.AuthProvider
	identity services.IIdentityService
	friends  services.IFriendService
	chats    services.IChatService
	messages services.IMessageService
	store    contract.ObjectStore
	registry *realtime.Registry

	cfg Config
}

func New(
	log *slog.Logger,
	cfg Config,
	auth contract.AuthProvider,
	identity services.IIdentityService,
	friends services.IFriendService,
	chats services.IChatService,
	messages services.IMessageService,
	store contract.ObjectStore,
	registry *realtime.Registry,
) *Server {
	s := &Server{
		log:      log,
		auth:     auth,
		identity: identity,
		friends:  friends,
		chats:    chats,
		messages: messages,
		store:    store,
		registry: registry,
		cfg:      cfg,
	}

	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	router.HandleFunc("/users", s.register).Methods(http.MethodPost)
	router.HandleFunc("/sessions", s.login).Methods(http.MethodPost)
	router.HandleFunc("/users/search", s.searchUser).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}", s.updateUser).Methods(http.MethodPut)

	router.HandleFunc("/friends", s.friendsOverview).Methods(http.MethodGet)
	router.HandleFunc("/friends/request", s.sendFriendRequest).Methods(http.MethodPost)
	router.HandleFunc("/friends/accept", s.acceptFriendRequest).Methods(http.MethodPost)
	router.HandleFunc("/friends/reject", s.rejectFriendRequest).Methods(http.MethodPost)

	router.HandleFunc("/chats", s.listChats).Methods(http.MethodGet)
	router.HandleFunc("/chats", s.createChat).Methods(http.MethodPost)
	router.HandleFunc("/chats/{id}/messages", s.chatHistory).Methods(http.MethodGet)
	router.HandleFunc("/chats/{id}/messages", s.sendMessage).Methods(http.MethodPost)

	router.HandleFunc("/uploads", s.upload).Methods(http.MethodPost)
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	router.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
