package services

import (
	"context"

	"partyline/contract"
	"partyline/domain/event"
	"partyline/repositories"
)

type IFriendService interface {
	SendRequest(ctx context.Context, fromID, toUsername string) error
	Accept(userID, fromID string) error
	Reject(userID, fromID string) error
}

// FriendService drives the friend-request state machine. The invariants
// (one pending request per ordered pair, no self requests, no request to an
// existing friend) are checked inside the repository transaction; this layer
// resolves usernames and emits notifications.
type FriendService struct {
	users    repositories.IUserRepository
	registry contract.Registry
}

func NewFriendService(users repositories.IUserRepository, registry contract.Registry) *FriendService {
	return &FriendService{users: users, registry: registry}
}

// SendRequest appends a pending request addressed to the named user and
// notifies their personal topic with the sender's public profile.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toUsername string) error {
	to, err := s.users.UserByUsername(toUsername)
	if err != nil {
		return err
	}
	from, err := s.users.UserByID(fromID)
	if err != nil {
		return err
	}

	if err := s.users.AddFriendRequest(from.ID, to.ID); err != nil {
		return err
	}

	s.registry.Publish(ctx, event.FriendRequested{To: to.ID, From: from.Profile()})
	return nil
}

// Accept materializes the symmetric friend edge. Accepting an already
// consumed request succeeds without effect; the path stays pollable rather
// than push-based, so no event is emitted.
func (s *FriendService) Accept(userID, fromID string) error {
	return s.users.AcceptFriendRequest(userID, fromID)
}

// Reject drops the pending request without creating an edge.
func (s *FriendService) Reject(userID, fromID string) error {
	return s.users.RejectFriendRequest(userID, fromID)
}
