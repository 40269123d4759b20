package repositories

import (
	"encoding/json"
	"time"

	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
)

type IGroupRepository interface {
	Save(info GroupInfo) error
	Load(name string) (GroupInfo, error)
	Delete(name string) error
}

// GroupInfo is the durable metadata document kept for each live group.
// It is deleted with the group; the group's message log is retained.
type GroupInfo struct {
	Name      string    `json:"group_name"`
	Admin     string    `json:"admin"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_date"`
}

type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (g *GroupRepository) Save(info GroupInfo) error {
	bytes, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(groupKey(info.Name)), bytes)
	})
}

func (g *GroupRepository) Load(name string) (GroupInfo, error) {
	var info GroupInfo
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(groupKey(name)))
		if err == badger.ErrKeyNotFound {
			return errors.ErrNoSuchGroup
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &info)
		})
	})
	return info, err
}

func (g *GroupRepository) Delete(name string) error {
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(groupKey(name)))
	})
}

func groupKey(name string) string {
	return "groupinfo:" + name
}
