package repositories

import (
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"partyline/domain"
	"partyline/errors"
)

func Test_GetOrCreateDirect_Dedup(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewChatRepository(db)

	// When the same pair asks twice, in both orders
	first, created, err := repository.GetOrCreateDirect("ann", "bob")
	req.NoError(err)
	req.True(created)

	second, created, err := repository.GetOrCreateDirect("bob", "ann")
	req.NoError(err)

	// Then the second call returns the first chat
	req.False(created)
	req.Equal(first.ID, second.ID)
	req.Equal(domain.ChatDirect, second.Type)
	req.ElementsMatch([]string{"ann", "bob"}, second.Participants)
}

func Test_GetOrCreateDirect_Concurrent(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewChatRepository(db)

	// When many goroutines race to create the same direct chat
	const racers = 16
	ids := make([]string, racers)
	createdCount := make([]bool, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chat, created, err := repository.GetOrCreateDirect("ann", "bob")
			require.NoError(t, err)
			ids[i] = chat.ID
			createdCount[i] = created
		}(i)
	}
	wg.Wait()

	// Then exactly one chat was created and everyone got the same one
	req.Len(lo.Uniq(ids), 1)
	req.Equal(1, lo.Count(createdCount, true))

	chats, err := repository.ChatsByUser("ann")
	req.NoError(err)
	req.Len(chats, 1)
}

func Test_CreateGroup(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewChatRepository(db)

	// Group chats carry no dedup: two creations mean two chats
	first, err := repository.CreateGroup("raid night", []string{"ann", "bob", "cid"})
	req.NoError(err)
	second, err := repository.CreateGroup("raid night", []string{"ann", "bob", "cid"})
	req.NoError(err)
	req.NotEqual(first.ID, second.ID)
	req.Equal(domain.ChatGroup, first.Type)
	req.Equal("raid night", first.Name)
}

func Test_ChatByID_Unknown(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewChatRepository(db)

	_, err := repository.ChatByID("nope")
	req.ErrorIs(err, errors.ErrChatNotFound)
}

func Test_ChatsByUser_FiltersMembership(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewChatRepository(db)

	_, _, err := repository.GetOrCreateDirect("ann", "bob")
	req.NoError(err)
	_, err = repository.CreateGroup("guild", []string{"bob", "cid"})
	req.NoError(err)

	annChats, err := repository.ChatsByUser("ann")
	req.NoError(err)
	req.Len(annChats, 1)

	bobChats, err := repository.ChatsByUser("bob")
	req.NoError(err)
	req.Len(bobChats, 2)

	none, err := repository.ChatsByUser("dan")
	req.NoError(err)
	req.Empty(none)
}
