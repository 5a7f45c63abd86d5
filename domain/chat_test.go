package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_DirectKey_OrderIndependent(t *testing.T) {
	req := require.New(t)

	req.Equal(DirectKey("ann", "bob"), DirectKey("bob", "ann"))
	req.Equal("ann:bob", DirectKey("bob", "ann"))
	req.NotEqual(DirectKey("ann", "bob"), DirectKey("ann", "cid"))
}

func Test_Chat_Participants(t *testing.T) {
	req := require.New(t)
	chat := Chat{Type: ChatDirect, Participants: []string{"ann", "bob"}}

	req.True(chat.HasParticipant("ann"))
	req.False(chat.HasParticipant("eve"))
	req.Equal("bob", chat.OtherParticipant("ann"))
	req.Equal("ann", chat.OtherParticipant("bob"))
}

func Test_MessageType_Valid(t *testing.T) {
	req := require.New(t)

	for _, mt := range []MessageType{MessageText, MessageImage, MessageAudio, MessageVideo} {
		req.True(mt.Valid())
	}
	req.False(MessageType("sticker").Valid())
	req.False(MessageType("").Valid())
}

func Test_User_FriendHelpers(t *testing.T) {
	req := require.New(t)
	user := User{
		Friends: []string{"bob"},
		PendingRequests: []FriendRequest{
			{From: "cid", To: "ann", Status: "pending"},
		},
	}

	req.True(user.HasFriend("bob"))
	req.False(user.HasFriend("cid"))
	req.Equal(0, user.PendingFrom("cid"))
	req.Equal(-1, user.PendingFrom("bob"))
}
