package repositories

import (
	"encoding/json"
	stderrors "errors"

	"github.com/dgraph-io/badger/v4"

	"partyline/domain"
	"partyline/errors"
)

type IChatRepository interface {
	CreateGroup(name string, participants []string) (domain.Chat, error)
	GetOrCreateDirect(a, b string) (chat domain.Chat, created bool, err error)
	ChatByID(id string) (domain.Chat, error)
	ChatsByUser(userID string) ([]domain.Chat, error)
}

type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func chatKey(id string) string     { return "chat:" + id }
func directKey(a, b string) string { return "direct:" + domain.DirectKey(a, b) }

// CreateGroup always creates a fresh chat; group chats carry no uniqueness
// constraint.
func (r *ChatRepository) CreateGroup(name string, participants []string) (domain.Chat, error) {
	chat := domain.Chat{
		Type:         domain.ChatGroup,
		Participants: participants,
		Name:         name,
	}
	err := update(r.db, func(txn *badger.Txn) error {
		chat.ID = newID()
		return setJSON(txn, chatKey(chat.ID), chat)
	})
	if err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// GetOrCreateDirect returns the unique direct chat for the unordered pair
// (a, b), creating it when absent. The dedup index read and the chat write
// happen in one transaction; a conflicting concurrent creation makes the
// commit fail and the retried transaction observe the winner, so exactly one
// chat ever exists per pair.
func (r *ChatRepository) GetOrCreateDirect(a, b string) (domain.Chat, bool, error) {
	var chat domain.Chat
	var created bool
	err := update(r.db, func(txn *badger.Txn) error {
		chat = domain.Chat{}
		created = false

		item, err := txn.Get([]byte(directKey(a, b)))
		if err == nil {
			var existingID string
			if err := item.Value(func(val []byte) error {
				existingID = string(val)
				return nil
			}); err != nil {
				return err
			}
			return getJSON(txn, chatKey(existingID), &chat)
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		chat = domain.Chat{
			ID:           newID(),
			Type:         domain.ChatDirect,
			Participants: []string{a, b},
		}
		created = true
		if err := txn.Set([]byte(directKey(a, b)), []byte(chat.ID)); err != nil {
			return err
		}
		return setJSON(txn, chatKey(chat.ID), chat)
	})
	if err != nil {
		return domain.Chat{}, false, err
	}
	return chat, created, nil
}

func (r *ChatRepository) ChatByID(id string) (domain.Chat, error) {
	var chat domain.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, chatKey(id), &chat)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Chat{}, errors.ErrChatNotFound
	}
	if err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// ChatsByUser scans the chat keyspace and keeps chats the user belongs to.
func (r *ChatRepository) ChatsByUser(userID string) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("chat:")
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var chat domain.Chat
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &chat)
			}); err != nil {
				return err
			}
			if chat.HasParticipant(userID) {
				chats = append(chats, chat)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chats, nil
}
