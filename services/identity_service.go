package services

import (
	"context"

	"partyline/contract"
	"partyline/domain"
	"partyline/domain/event"
	"partyline/repositories"
)

type IIdentityService interface {
	ByID(id string) (domain.User, error)
	SearchByUsername(username string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (domain.User, error)
	FriendsOverview(id string) (FriendsOverview, error)
}

// FriendsOverview is the GET /friends projection: resolved friend profiles
// with live presence, plus the senders of pending requests.
type FriendsOverview struct {
	Friends  []domain.PublicProfile `json:"friends"`
	Requests []domain.PublicProfile `json:"requests"`
}

type IdentityService struct {
	users    repositories.IUserRepository
	registry contract.Registry
}

func NewIdentityService(users repositories.IUserRepository, registry contract.Registry) *IdentityService {
	return &IdentityService{users: users, registry: registry}
}

func (s *IdentityService) ByID(id string) (domain.User, error) {
	return s.users.UserByID(id)
}

func (s *IdentityService) SearchByUsername(username string) (domain.User, error) {
	return s.users.UserByUsername(username)
}

// UpdateProfile applies a presence-based partial update and pushes the new
// profile to the user's own personal topic and each friend's. The original
// design broadcast profile changes to everyone; scoping to friends keeps the
// pubsub contract's topic model honest.
func (s *IdentityService) UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (domain.User, error) {
	user, err := s.users.UpdateProfile(id, patch)
	if err != nil {
		return domain.User{}, err
	}

	s.registry.Publish(ctx, event.ProfileUpdated{To: user.ID, User: user})
	for _, friendID := range user.Friends {
		s.registry.Publish(ctx, event.ProfileUpdated{To: friendID, User: user})
	}
	return user, nil
}

// FriendsOverview resolves friend ids and pending-request senders into
// profiles. Presence comes from the registry: a friend is online iff at
// least one live connection subscribes to their personal topic.
func (s *IdentityService) FriendsOverview(id string) (FriendsOverview, error) {
	user, err := s.users.UserByID(id)
	if err != nil {
		return FriendsOverview{}, err
	}

	overview := FriendsOverview{
		Friends:  []domain.PublicProfile{},
		Requests: []domain.PublicProfile{},
	}
	for _, friendID := range user.Friends {
		friend, err := s.users.UserByID(friendID)
		if err != nil {
			continue
		}
		profile := friend.Profile()
		profile.IsOnline = s.registry.IsUserOnline(friendID)
		overview.Friends = append(overview.Friends, profile)
	}
	for _, request := range user.PendingRequests {
		sender, err := s.users.UserByID(request.From)
		if err != nil {
			continue
		}
		overview.Requests = append(overview.Requests, sender.Profile())
	}
	return overview, nil
}
