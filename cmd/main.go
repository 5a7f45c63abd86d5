package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"partyline/auth"
	"partyline/internal"
	"partyline/moderation"
	"partyline/realtime"
	"partyline/repositories"
	"partyline/server"
	"partyline/services"
	"partyline/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires everything and owns the lifecycle, so every defer executes on
// the way out and main stays a one-liner.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// 2. Storage (BadgerDB, in-memory unless a path is configured)
	db, err := repositories.Open(config.BadgerFilepath)
	if err != nil {
		return fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing store...")
		_ = db.Close()
	}()

	userRepository := repositories.NewUserRepository(db)
	chatRepository := repositories.NewChatRepository(db)
	messageRepository := repositories.NewMessageRepository(db)

	// 3. Realtime registry & moderation
	registry := realtime.NewRegistry(log)

	var moderator *moderation.Moderator
	if len(config.CensoredWords) > 0 {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		moderator, err = moderation.New(config.CensoredWords, replacement)
		if err != nil {
			return fmt.Errorf("building moderator: %w", err)
		}
		log.Info("Moderation enabled", "words", len(config.CensoredWords))
	}

	// 4. Services
	tokens := auth.NewTokens([]byte(config.JWTSecret), config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, tokens)
	identityService := services.NewIdentityService(userRepository, registry)
	friendService := services.NewFriendService(userRepository, registry)
	chatService := services.NewChatService(chatRepository, userRepository, registry)
	messageService := services.NewMessageService(messageRepository, chatRepository, registry, moderator)

	objectStore, err := storage.NewDiskStore(config.UploadDir, "/uploads")
	if err != nil {
		return err
	}

	// 5. HTTP server & signals
	srv := server.New(log, server.Config{
		Addr:                 fmt.Sprintf("%s:%d", config.Host, config.Port),
		ConnectionBufferSize: config.ConnectionBufferSize,
		MaxUploadBytes:       config.MaxUploadBytes,
		UploadDir:            config.UploadDir,
	}, authService, identityService, friendService, chatService, messageService, objectStore, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting", "at", time.Now().UTC())
	if err := srv.Run(ctx); err != nil {
		return err
	}

	log.Info("Program stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
