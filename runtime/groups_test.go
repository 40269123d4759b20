package runtime

import (
	"log/slog"
	"testing"

	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newGroups(t *testing.T) (*Groups, *repositories.GroupRepository) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repository := repositories.NewGroupRepository(db)
	return NewGroups(slog.Default(), repository), repository
}

func Test_Groups_Lifecycle_With_Admin_Succession(t *testing.T) {
	req := require.New(t)
	groups, repository := newGroups(t)

	// Given alice creates dev and adds bob
	req.NoError(groups.Create("dev", "alice"))
	req.ErrorIs(groups.Create("dev", "bob"), errors.ErrGroupExists)
	req.NoError(groups.AddMember("dev", "alice", "bob"))
	req.ErrorIs(groups.AddMember("dev", "alice", "bob"), errors.ErrAlreadyMember)

	summary, err := groups.MembersOf("dev")
	req.NoError(err)
	req.Equal("alice", summary.Admin)
	req.Equal([]string{"alice", "bob"}, summary.Members)

	// When the admin leaves
	removal, err := groups.RemoveMember("dev", "alice")

	// Then bob is promoted and the metadata follows
	req.NoError(err)
	req.True(removal.WasAdmin)
	req.Equal("bob", removal.Successor)
	info, err := repository.Load("dev")
	req.NoError(err)
	req.Equal("bob", info.Admin)
	req.Equal([]string{"bob"}, info.Members)

	// When the last member leaves, the group and its metadata die
	removal, err = groups.RemoveMember("dev", "bob")
	req.NoError(err)
	req.True(removal.Empty)
	_, err = groups.MembersOf("dev")
	req.ErrorIs(err, errors.ErrNoSuchGroup)
	_, err = repository.Load("dev")
	req.ErrorIs(err, errors.ErrNoSuchGroup)
}

func Test_Groups_Membership_Errors(t *testing.T) {
	req := require.New(t)
	groups, _ := newGroups(t)
	req.NoError(groups.Create("dev", "alice"))

	req.ErrorIs(groups.AddMember("ghost", "alice", "bob"), errors.ErrNoSuchGroup)
	_, err := groups.RemoveMember("ghost", "bob")
	req.ErrorIs(err, errors.ErrNoSuchGroup)
	_, err = groups.RemoveMember("dev", "bob")
	req.ErrorIs(err, errors.ErrNotAMember)
	_, err = groups.MembersOf("ghost")
	req.ErrorIs(err, errors.ErrNoSuchGroup)
}

func Test_Groups_AddMember_Only_By_Current_Admin(t *testing.T) {
	req := require.New(t)
	groups, _ := newGroups(t)
	req.NoError(groups.Create("dev", "alice"))
	req.NoError(groups.AddMember("dev", "alice", "bob"))

	// A plain member cannot add
	req.ErrorIs(groups.AddMember("dev", "bob", "carol"), errors.ErrNotAdmin)

	// Given bob inherits the group when alice leaves
	removal, err := groups.RemoveMember("dev", "alice")
	req.NoError(err)
	req.Equal("bob", removal.Successor)

	// Then the demoted admin's stale authority is gone
	req.ErrorIs(groups.AddMember("dev", "alice", "carol"), errors.ErrNotAdmin)
	req.NoError(groups.AddMember("dev", "bob", "carol"))

	summary, err := groups.MembersOf("dev")
	req.NoError(err)
	req.Equal([]string{"bob", "carol"}, summary.Members)
}

func Test_Groups_ListFor_Is_Sorted_By_Name(t *testing.T) {
	req := require.New(t)
	groups, _ := newGroups(t)
	req.NoError(groups.Create("ops", "alice"))
	req.NoError(groups.Create("dev", "alice"))
	req.NoError(groups.Create("random", "bob"))

	summaries := groups.ListFor("alice")

	req.Len(summaries, 2)
	req.Equal("dev", summaries[0].Name)
	req.Equal("ops", summaries[1].Name)
	req.Empty(groups.ListFor("carol"))
}
