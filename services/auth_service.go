package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"partyline/auth"
	"partyline/domain"
	"partyline/errors"
	"partyline/repositories"
)

var validate = validator.New()

type registration struct {
	Username      string `validate:"required,min=2,max=32"`
	CredentialRef string `validate:"required"`
}

// AuthService is the default AuthProvider: credentials are hashed with
// Argon2id at rest and sessions are carried by signed JWTs. Everything else
// in the core only ever sees the contract interface.
type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.Tokens
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates and creates the account. Hashing runs before the
// repository call so the store never sees the plain credential.
func (s *AuthService) Register(_ context.Context, username, credentialRef string) (domain.User, error) {
	if err := validate.Struct(registration{Username: username, CredentialRef: credentialRef}); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	hash, err := auth.HashCredential(credentialRef)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	return s.users.CreateUser(username, hash)
}

// Authenticate verifies the credential and mints a session token. Lookup and
// comparison failures collapse into one error to avoid user enumeration.
func (s *AuthService) Authenticate(_ context.Context, username, credentialRef string) (domain.User, string, error) {
	user, hash, err := s.users.CredentialByUsername(username)
	if err != nil {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.CompareCredential(credentialRef, hash)
	if err != nil || !match {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.User{}, "", errors.ErrTokenGeneration
	}
	return user, token, nil
}

func (s *AuthService) VerifyToken(token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", errors.ErrInvalidToken
	}
	return userID, nil
}
