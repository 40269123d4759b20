package domain

import (
	"time"

	"chat-hub/errors"

	"github.com/samber/lo"
)

// member keeps the join order needed for deterministic admin succession.
type member struct {
	Username string
	JoinedAt time.Time
}

// Group is a named set of usernames with exactly one admin, who is always
// a member. A group with no members does not exist: callers must drop it
// as soon as Remove reports it empty.
type Group struct {
	Name      string
	Admin     string
	CreatedAt time.Time

	members []member
}

// Removal reports the outcome of a member leaving a group.
type Removal struct {
	Empty     bool
	WasAdmin  bool
	Successor string // new admin, empty when the group died or the admin stayed
}

// NewGroup creates a group with the creator as sole member and admin.
func NewGroup(name, admin string, at time.Time) *Group {
	return &Group{
		Name:      name,
		Admin:     admin,
		CreatedAt: at,
		members:   []member{{Username: admin, JoinedAt: at}},
	}
}

func (g *Group) Has(username string) bool {
	return lo.ContainsBy(g.members, func(m member) bool { return m.Username == username })
}

// Add appends a member at the tail of the join order.
func (g *Group) Add(username string, at time.Time) error {
	if g.Has(username) {
		return errors.ErrAlreadyMember
	}
	g.members = append(g.members, member{Username: username, JoinedAt: at})
	return nil
}

// Remove takes a member out of the group. When the admin leaves and
// members remain, the earliest joined remaining member is promoted, equal
// join instants falling back to username order so the choice is
// reproducible from membership history.
func (g *Group) Remove(username string) (Removal, error) {
	idx := lo.IndexOf(g.Members(), username)
	if idx < 0 {
		return Removal{}, errors.ErrNotAMember
	}
	g.members = append(g.members[:idx], g.members[idx+1:]...)

	removal := Removal{WasAdmin: g.Admin == username}
	if len(g.members) == 0 {
		g.Admin = ""
		removal.Empty = true
		return removal, nil
	}
	if removal.WasAdmin {
		g.Admin = g.successor()
		removal.Successor = g.Admin
	}
	return removal, nil
}

func (g *Group) successor() string {
	best := g.members[0]
	for _, m := range g.members[1:] {
		if m.JoinedAt.Before(best.JoinedAt) ||
			(m.JoinedAt.Equal(best.JoinedAt) && m.Username < best.Username) {
			best = m
		}
	}
	return best.Username
}

// Members returns usernames in join order.
func (g *Group) Members() []string {
	return lo.Map(g.members, func(m member, _ int) string { return m.Username })
}
