package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"partyline/domain"
)

type IMessageRepository interface {
	Append(chatID, senderID string, msgType domain.MessageType, content string) (domain.Message, error)
	Messages(chatID string) ([]domain.Message, error)
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func seqKey(chatID string) string    { return "seq:" + chatID }
func msgPrefix(chatID string) string { return "msg:" + chatID + ":" }

// msgKey pads the sequence to 20 digits so a prefix scan returns messages in
// sequence order without any post-sort.
func msgKey(chatID string, seq uint64) string {
	return fmt.Sprintf("%s%020d", msgPrefix(chatID), seq)
}

// Append assigns the next sequence number for the chat and writes the message
// under it, in one transaction. The counter read and the message write
// conflict with any concurrent append to the same chat, so retried commits
// yield distinct, contiguous sequence numbers starting at 1.
func (r *MessageRepository) Append(chatID, senderID string, msgType domain.MessageType, content string) (domain.Message, error) {
	var msg domain.Message
	err := update(r.db, func(txn *badger.Txn) error {
		var seq uint64
		item, err := txn.Get([]byte(seqKey(chatID)))
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				seq, err = strconv.ParseUint(string(val), 10, 64)
				return err
			}); err != nil {
				return err
			}
		case stderrors.Is(err, badger.ErrKeyNotFound):
			seq = 0
		default:
			return err
		}
		seq++

		msg = domain.Message{
			ID:        newID(),
			ChatID:    chatID,
			SenderID:  senderID,
			Type:      msgType,
			Content:   content,
			Sequence:  seq,
			CreatedAt: time.Now().UTC(),
		}
		if err := txn.Set([]byte(seqKey(chatID)), []byte(strconv.FormatUint(seq, 10))); err != nil {
			return err
		}
		return setJSON(txn, msgKey(chatID, seq), msg)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Messages returns the full ordered log for a chat. The padded key makes the
// scan order the sequence order.
func (r *MessageRepository) Messages(chatID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(msgPrefix(chatID))
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg domain.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			}); err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
