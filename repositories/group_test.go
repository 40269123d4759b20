package repositories

import (
	"testing"
	"time"

	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

func Test_Group_Metadata_Save_Load_Delete(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openDB(t))
	info := GroupInfo{
		Name:      "dev",
		Admin:     "alice",
		Members:   []string{"alice", "bob"},
		CreatedAt: time.Now().UTC(),
	}

	req.NoError(repository.Save(info))

	loaded, err := repository.Load("dev")
	req.NoError(err)
	req.Equal(info.Name, loaded.Name)
	req.Equal(info.Admin, loaded.Admin)
	req.Equal(info.Members, loaded.Members)
	req.True(info.CreatedAt.Equal(loaded.CreatedAt))

	req.NoError(repository.Delete("dev"))
	_, err = repository.Load("dev")
	req.ErrorIs(err, errors.ErrNoSuchGroup)
}

func Test_Group_Metadata_Save_Overwrites(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openDB(t))
	at := time.Now().UTC()

	req.NoError(repository.Save(GroupInfo{Name: "dev", Admin: "alice", Members: []string{"alice"}, CreatedAt: at}))
	req.NoError(repository.Save(GroupInfo{Name: "dev", Admin: "bob", Members: []string{"bob"}, CreatedAt: at}))

	loaded, err := repository.Load("dev")
	req.NoError(err)
	req.Equal("bob", loaded.Admin)
	req.Equal([]string{"bob"}, loaded.Members)
}

func Test_Group_Metadata_Load_Missing(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openDB(t))

	_, err := repository.Load("ghost")

	req.ErrorIs(err, errors.ErrNoSuchGroup)
}
