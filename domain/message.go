// Package domain contains core concepts of the chat system.
// This file defines Message records and their integrity digest.
// Messages are immutable once created.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat record.
type Message struct {
	ID        uuid.UUID
	Timestamp time.Time
	Sender    string
	Receiver  string // target username, group name or the public channel marker
	Content   string
	Hash      string // hex SHA-256 of Content
}

func NewMessage(sender, receiver, content string, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Timestamp: at.UTC(),
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		Hash:      HashContent(content),
	}
}

// HashContent computes the digest stored next to each message.
// It is a tamper check for history viewers, not an encryption of the content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest over the content and compares it with the
// stored one.
func (m Message) Verify() bool {
	return m.Hash == HashContent(m.Content)
}
