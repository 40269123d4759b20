package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Message_Digest(t *testing.T) {
	req := require.New(t)

	message := NewMessage("alice", "bob", "hi", time.Now())

	req.Equal("8f434346648f6b96df89dda901c5176b10a6d83961dd3c1ac88b59b2dc327aa4", message.Hash)
	req.True(message.Verify())
	req.Equal(time.UTC, message.Timestamp.Location())
	req.NotEqual(message.ID, NewMessage("alice", "bob", "hi", time.Now()).ID)
}

func Test_Message_Digest_Detects_Tampering(t *testing.T) {
	req := require.New(t)

	message := NewMessage("alice", "bob", "transfer 10", time.Now())
	message.Content = "transfer 100"

	req.False(message.Verify())
}
