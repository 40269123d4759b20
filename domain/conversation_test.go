package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Pair_Conversation_Is_Unordered(t *testing.T) {
	req := require.New(t)

	req.Equal(PairConversation("alice", "bob"), PairConversation("bob", "alice"))
	req.Equal("pair/alice/bob", PairConversation("bob", "alice").Key())
}

func Test_Conversation_Identities_Are_Distinct(t *testing.T) {
	req := require.New(t)

	req.Equal("group/dev", GroupConversation("dev").Key())
	req.Equal("public", PublicConversation().Key())
	req.NotEqual(GroupConversation("alice").Key(), PairConversation("alice", "alice").Key())
}
