package repositories

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/valyala/fastjson"
)

type IMessageRepository interface {
	Append(conversation domain.Conversation, message domain.Message) error
	History(conversation domain.Conversation) ([]domain.Message, error)
}

type MessageRepository struct {
	db *badger.DB

	mu      sync.Mutex
	appends map[string]*sync.Mutex
	parsers fastjson.ParserPool
}

func NewMessageRepository(db *badger.DB) *MessageRepository {
	return &MessageRepository{db: db, appends: make(map[string]*sync.Mutex)}
}

// storedMessage is the on-disk record shape, the exact JSON object the
// history viewer consumes.
type storedMessage struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver_or_group"`
	Message   string `json:"message"`
	Hash      string `json:"message_hash"`
}

// Append persists one record at the tail of a conversation log.
// The key is formatted as "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the record UUID as a collision
//     disconnector if two messages arrive at the same nanosecond.
//
// Appends to the same conversation are serialized so the log order always
// matches the order the router accepted the messages in.
func (m *MessageRepository) Append(conversation domain.Conversation, message domain.Message) error {
	lock := m.lockFor(conversation.Key())
	lock.Lock()
	defer lock.Unlock()

	key := fmt.Sprintf("msg:%s:%019d:%s", conversation.Key(), message.Timestamp.UnixNano(), message.ID)
	bytes, err := json.Marshal(toStored(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// History returns every record ever written for the conversation, in
// write order. Thanks to the padded timestamp in the key, a forward
// prefix scan is already chronological.
func (m *MessageRepository) History(conversation domain.Conversation) ([]domain.Message, error) {
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:" + conversation.Key() + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	parser := m.parsers.Get()
	defer m.parsers.Put(parser)

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		value, err := parser.ParseBytes(b)
		if err != nil {
			return nil, err
		}
		message, err := fromStored(value)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (m *MessageRepository) lockFor(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.appends[key]
	if !ok {
		lock = &sync.Mutex{}
		m.appends[key] = lock
	}
	return lock
}

func toStored(message domain.Message) storedMessage {
	return storedMessage{
		ID:        message.ID.String(),
		Timestamp: message.Timestamp.Format(time.RFC3339Nano),
		Sender:    message.Sender,
		Receiver:  message.Receiver,
		Message:   message.Content,
		Hash:      message.Hash,
	}
}

func fromStored(value *fastjson.Value) (domain.Message, error) {
	id, err := uuid.Parse(string(value.GetStringBytes("id")))
	if err != nil {
		return domain.Message{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, string(value.GetStringBytes("timestamp")))
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        id,
		Timestamp: at,
		Sender:    string(value.GetStringBytes("sender")),
		Receiver:  string(value.GetStringBytes("receiver_or_group")),
		Content:   string(value.GetStringBytes("message")),
		Hash:      string(value.GetStringBytes("message_hash")),
	}, nil
}
