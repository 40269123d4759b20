package runtime

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
)

// GroupSummary is a point-in-time copy of a group's state, safe to use
// after the lock is released. Members are in join order.
type GroupSummary struct {
	Name    string
	Admin   string
	Members []string
}

// Groups is the thread-safe catalog of group entities keyed by name.
// Metadata is written through to the repository on every mutation so the
// on-disk state can be audited; a write failure degrades to a warning and
// never rolls back the in-memory mutation.
type Groups struct {
	mu         sync.RWMutex
	log        *slog.Logger
	repository repositories.IGroupRepository
	groups     map[string]*domain.Group
}

func NewGroups(log *slog.Logger, repository repositories.IGroupRepository) *Groups {
	return &Groups{log: log, repository: repository, groups: make(map[string]*domain.Group)}
}

// Create registers a new group with the creator as sole member and admin.
func (g *Groups) Create(name, creator string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.groups[name]; ok {
		return errors.ErrGroupExists
	}
	group := domain.NewGroup(name, creator, time.Now().UTC())
	g.groups[name] = group
	g.persist(group)
	return nil
}

// AddMember adds username to a group on behalf of actor. The admin check
// runs under the same lock as the mutation, so a succession between the
// caller's snapshot and the write can never let a demoted admin add a
// member.
func (g *Groups) AddMember(name, actor, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	group, ok := g.groups[name]
	if !ok {
		return errors.ErrNoSuchGroup
	}
	if group.Admin != actor {
		return errors.ErrNotAdmin
	}
	if err := group.Add(username, time.Now().UTC()); err != nil {
		return err
	}
	g.persist(group)
	return nil
}

// RemoveMember takes a username out of a group. It reports whether the
// group died with this removal and, when the admin left a non-empty
// group, the successor chosen by join order. Deletion of an empty group
// is synchronous with the removal; the persisted message log is retained.
func (g *Groups) RemoveMember(name, username string) (domain.Removal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	group, ok := g.groups[name]
	if !ok {
		return domain.Removal{}, errors.ErrNoSuchGroup
	}
	removal, err := group.Remove(username)
	if err != nil {
		return domain.Removal{}, err
	}
	if removal.Empty {
		delete(g.groups, name)
		if err := g.repository.Delete(name); err != nil {
			g.log.Warn("group metadata delete failed", "group", name, "error", err)
		}
		return removal, nil
	}
	g.persist(group)
	return removal, nil
}

// ListFor returns the groups the username belongs to, sorted by name.
func (g *Groups) ListFor(username string) []GroupSummary {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var summaries []GroupSummary
	for _, group := range g.groups {
		if group.Has(username) {
			summaries = append(summaries, summarize(group))
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// MembersOf returns the membership snapshot of a group.
func (g *Groups) MembersOf(name string) (GroupSummary, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	group, ok := g.groups[name]
	if !ok {
		return GroupSummary{}, errors.ErrNoSuchGroup
	}
	return summarize(group), nil
}

func (g *Groups) persist(group *domain.Group) {
	info := repositories.GroupInfo{
		Name:      group.Name,
		Admin:     group.Admin,
		Members:   group.Members(),
		CreatedAt: group.CreatedAt,
	}
	if err := g.repository.Save(info); err != nil {
		g.log.Warn("group metadata save failed", "group", group.Name, "error", err)
	}
}

func summarize(group *domain.Group) GroupSummary {
	return GroupSummary{Name: group.Name, Admin: group.Admin, Members: group.Members()}
}
