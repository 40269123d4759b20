package domain

import "fmt"

// PublicChannel is the receiver marker for messages broadcast to everyone.
const PublicChannel = "public"

// Conversation identifies one append-only log: a private user pair
// (unordered), a named group, or the single public channel.
//
// Pair segments are joined with '/' and storage keys append
// ':'-delimited suffixes after the identity. Both characters are
// excluded from usernames and group names, so two different
// conversations can never render the same identity and no identity can
// extend another's storage key prefix.
type Conversation struct {
	key string
}

// PairConversation returns the identity of the private log between two
// users. The pair is unordered: both argument orders yield the same key.
func PairConversation(a, b string) Conversation {
	if b < a {
		a, b = b, a
	}
	return Conversation{key: fmt.Sprintf("pair/%s/%s", a, b)}
}

func GroupConversation(name string) Conversation {
	return Conversation{key: "group/" + name}
}

func PublicConversation() Conversation {
	return Conversation{key: PublicChannel}
}

// Key returns the stable identity used as the storage key segment of the
// conversation's log.
func (c Conversation) Key() string { return c.key }
