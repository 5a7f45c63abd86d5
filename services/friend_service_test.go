package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"partyline/domain/event"
	"partyline/errors"
)

func Test_SendRequest_NotifiesTarget(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")
	inbox := f.listen(event.UserTopic(bob.ID))

	// When Ann sends Bob a request by username
	req.NoError(f.friends.SendRequest(ctx, ann.ID, "bob"))

	// Then Bob's personal topic sees a friend_request with Ann's profile
	events := received(inbox)
	req.Len(events, 1)
	requested, ok := events[0].(event.FriendRequested)
	req.True(ok)
	req.Equal(bob.ID, requested.To)
	req.Equal(ann.ID, requested.From.ID)
	req.Equal("Ann", requested.From.Username)
}

func Test_SendRequest_Rejections(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	f.user(t, "Bob")

	req.ErrorIs(f.friends.SendRequest(ctx, ann.ID, "Ann"), errors.ErrSelfReference)
	req.ErrorIs(f.friends.SendRequest(ctx, ann.ID, "Ghost"), errors.ErrUserNotFound)

	req.NoError(f.friends.SendRequest(ctx, ann.ID, "Bob"))
	req.ErrorIs(f.friends.SendRequest(ctx, ann.ID, "Bob"), errors.ErrDuplicateRequest)
}

func Test_AcceptThenRequestAgain(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")

	req.NoError(f.friends.SendRequest(ctx, ann.ID, "Bob"))
	req.NoError(f.friends.Accept(bob.ID, ann.ID))

	// Friendship is symmetric
	overview, err := f.identity.FriendsOverview(ann.ID)
	req.NoError(err)
	req.Len(overview.Friends, 1)
	req.Equal(bob.ID, overview.Friends[0].ID)

	overview, err = f.identity.FriendsOverview(bob.ID)
	req.NoError(err)
	req.Len(overview.Friends, 1)

	// And a repeated request now fails on the friendship, not the pending set
	req.ErrorIs(f.friends.SendRequest(ctx, bob.ID, "Ann"), errors.ErrAlreadyFriends)
}

func Test_RejectLeavesNoEdge(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")

	req.NoError(f.friends.SendRequest(ctx, ann.ID, "Bob"))
	req.NoError(f.friends.Reject(bob.ID, ann.ID))

	overview, err := f.identity.FriendsOverview(bob.ID)
	req.NoError(err)
	req.Empty(overview.Friends)
	req.Empty(overview.Requests)

	// Rejecting again is a no-op, and Ann is free to try again
	req.NoError(f.friends.Reject(bob.ID, ann.ID))
	req.NoError(f.friends.SendRequest(ctx, ann.ID, "Bob"))
}
