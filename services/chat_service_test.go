package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"partyline/domain"
	"partyline/domain/event"
	"partyline/errors"
)

func Test_CreateDirectChat_EmitsOncePerParticipant(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")
	annInbox := f.listen(event.UserTopic(ann.ID))
	bobInbox := f.listen(event.UserTopic(bob.ID))

	// When Ann opens a direct chat with Bob
	chat, err := f.chatSvc.Create(ctx, domain.ChatDirect, []string{ann.ID, bob.ID}, "")
	req.NoError(err)
	req.Equal(domain.ChatDirect, chat.Type)

	// Then both personal topics see chat_new exactly once
	req.Len(received(annInbox), 1)
	req.Len(received(bobInbox), 1)

	// And a second open, from either side, returns the same chat silently
	again, err := f.chatSvc.Create(ctx, domain.ChatDirect, []string{bob.ID, ann.ID}, "")
	req.NoError(err)
	req.Equal(chat.ID, again.ID)
	req.Empty(received(annInbox))
	req.Empty(received(bobInbox))
}

func Test_CreateChat_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")

	cases := []struct {
		name         string
		chatType     domain.ChatType
		participants []string
		chatName     string
	}{
		{"unknown participant", domain.ChatDirect, []string{ann.ID, "ghost"}, ""},
		{"direct with one participant", domain.ChatDirect, []string{ann.ID}, ""},
		{"direct with duplicated pair", domain.ChatDirect, []string{ann.ID, ann.ID}, ""},
		{"group without name", domain.ChatGroup, []string{ann.ID, bob.ID}, ""},
		{"group with one participant", domain.ChatGroup, []string{ann.ID}, "solo"},
		{"unknown type", domain.ChatType("broadcast"), []string{ann.ID, bob.ID}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.chatSvc.Create(ctx, tc.chatType, tc.participants, tc.chatName)
			require.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func Test_CreateGroupChat(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")
	cid := f.user(t, "Cid")
	inbox := f.listen(event.UserTopic(cid.ID))

	chat, err := f.chatSvc.Create(ctx, domain.ChatGroup, []string{ann.ID, bob.ID, cid.ID}, "raid night")
	req.NoError(err)
	req.Equal("raid night", chat.Name)
	req.Len(chat.Participants, 3)
	req.Len(received(inbox), 1)

	// Groups are never deduplicated
	again, err := f.chatSvc.Create(ctx, domain.ChatGroup, []string{ann.ID, bob.ID, cid.ID}, "raid night")
	req.NoError(err)
	req.NotEqual(chat.ID, again.ID)
}

func Test_ListForUser_Views(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")

	_, err := f.chatSvc.Create(ctx, domain.ChatDirect, []string{ann.ID, bob.ID}, "")
	req.NoError(err)
	_, err = f.chatSvc.Create(ctx, domain.ChatGroup, []string{ann.ID, bob.ID}, "duo")
	req.NoError(err)

	views, err := f.chatSvc.ListForUser(ann.ID)
	req.NoError(err)
	req.Len(views, 2)

	for _, view := range views {
		switch view.Type {
		case domain.ChatDirect:
			// Ann's view of the direct chat is labeled with Bob
			req.Equal("Bob", view.Name)
			req.Equal(bob.Avatar, view.Avatar)
		case domain.ChatGroup:
			req.Equal("duo", view.Name)
			req.NotEmpty(view.Avatar)
		}
	}
}

func Test_CanJoin(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "Ann")
	bob := f.user(t, "Bob")
	eve := f.user(t, "Eve")

	chat, err := f.chatSvc.Create(ctx, domain.ChatDirect, []string{ann.ID, bob.ID}, "")
	req.NoError(err)

	req.NoError(f.chatSvc.CanJoin(ann.ID, chat.ID))
	req.ErrorIs(f.chatSvc.CanJoin(eve.ID, chat.ID), errors.ErrNotChatMember)
	req.ErrorIs(f.chatSvc.CanJoin(ann.ID, "nope"), errors.ErrChatNotFound)
}
