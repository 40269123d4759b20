package runtime

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/samber/lo"
)

// Router classifies one inbound line and applies it to the registries and
// the conversation logs. Command responses and error notices go only to
// the issuing session; chat deliveries fan out through recipient
// outboxes, independently per recipient and without retries.
type Router struct {
	log      *slog.Logger
	sessions *Registry
	groups   *Groups
	messages repositories.IMessageRepository
}

func NewRouter(log *slog.Logger, sessions *Registry, groups *Groups, messages repositories.IMessageRepository) *Router {
	return &Router{log: log, sessions: sessions, groups: groups, messages: messages}
}

// Dispatch handles one line from a session and reports whether the
// session asked to quit.
func (r *Router) Dispatch(session *Session, line string) bool {
	command, err := domain.ParseLine(line)
	if err != nil {
		session.TrySend("Error: " + err.Error())
		return false
	}
	switch c := command.(type) {
	case domain.PrivateMessage:
		r.private(session, c)
	case domain.GroupMessage:
		r.groupMessage(session, c)
	case domain.CreateGroup:
		r.createGroup(session, c)
	case domain.AddToGroup:
		r.addToGroup(session, c)
	case domain.LeaveGroup:
		r.leaveGroup(session, c)
	case domain.ListGroups:
		r.listGroups(session)
	case domain.GroupMembers:
		r.groupMembers(session, c)
	case domain.ListUsers:
		session.TrySend("Online users: " + strings.Join(r.sessions.Online(), ", "))
	case domain.PublicMessage:
		r.public(session, c)
	case domain.Quit:
		return true
	}
	return false
}

// Disconnect removes the session from every catalog, runs admin
// succession for each membership the departure vacated, and announces the
// departure to the remaining sessions.
func (r *Router) Disconnect(session *Session) {
	r.sessions.Unregister(session.Username)
	for _, summary := range r.groups.ListFor(session.Username) {
		removal, err := r.groups.RemoveMember(summary.Name, session.Username)
		if err != nil {
			continue
		}
		if removal.Empty {
			r.log.Info("group deleted", "group", summary.Name)
			continue
		}
		r.notifySuccessor(summary.Name, removal)
		r.notifyGroup(summary.Name, "", fmt.Sprintf("[%s] %s has left the group", summary.Name, session.Username))
	}
	r.Announce(session.Username, fmt.Sprintf("%s has left the chat", session.Username))
	session.Close()
}

// Announce sends a system line to every online session except one.
// Announcements are not conversation messages and are never persisted.
func (r *Router) Announce(except, line string) {
	for _, target := range r.sessions.Snapshot() {
		if target.Username == except {
			continue
		}
		target.TrySend(line)
	}
}

func (r *Router) private(session *Session, c domain.PrivateMessage) {
	message := domain.NewMessage(session.Username, c.To, c.Text, time.Now())
	r.persist(session, domain.PairConversation(session.Username, c.To), message)
	if target, online := r.sessions.Lookup(c.To); online {
		target.TrySend(fmt.Sprintf("[Private] %s: %s", session.Username, c.Text))
		session.TrySend(fmt.Sprintf("[Private to %s]: %s", c.To, c.Text))
	} else {
		// Persisted for the record anyway, just not delivered live.
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", errors.ErrUserOffline, c.To))
	}
}

func (r *Router) groupMessage(session *Session, c domain.GroupMessage) {
	summary, err := r.groups.MembersOf(c.Group)
	if err != nil {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, c.Group))
		return
	}
	if !lo.Contains(summary.Members, session.Username) {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", errors.ErrNotAMember, c.Group))
		return
	}
	r.persist(session, domain.GroupConversation(c.Group), domain.NewMessage(session.Username, c.Group, c.Text, time.Now()))
	line := fmt.Sprintf("[%s] %s: %s", c.Group, session.Username, c.Text)
	for _, member := range summary.Members {
		if member == session.Username {
			continue
		}
		if target, online := r.sessions.Lookup(member); online {
			target.TrySend(line)
		}
	}
	session.TrySend(line)
}

func (r *Router) createGroup(session *Session, c domain.CreateGroup) {
	if err := domain.ValidateGroupName(c.Name); err != nil {
		session.TrySend("Error: " + err.Error())
		return
	}
	if err := r.groups.Create(c.Name, session.Username); err != nil {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, c.Name))
		return
	}
	session.TrySend(fmt.Sprintf("Group '%s' created successfully. You are the admin.", c.Name))
}

func (r *Router) addToGroup(session *Session, c domain.AddToGroup) {
	if _, err := r.groups.MembersOf(c.Group); err != nil {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, c.Group))
		return
	}
	target, online := r.sessions.Lookup(c.User)
	if !online {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", errors.ErrNoSuchUser, c.User))
		return
	}
	// The admin check happens inside AddMember, under the same lock as
	// the mutation, so a concurrent succession cannot race it.
	if err := r.groups.AddMember(c.Group, session.Username, c.User); err != nil {
		arg := c.User
		if errors.Is(err, errors.ErrNotAdmin) || errors.Is(err, errors.ErrNoSuchGroup) {
			arg = c.Group
		}
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, arg))
		return
	}
	target.TrySend(fmt.Sprintf("You have been added to group '%s' by %s", c.Group, session.Username))
	r.notifyGroup(c.Group, c.User, fmt.Sprintf("[%s] %s has been added to the group by %s", c.Group, c.User, session.Username))
	session.TrySend(fmt.Sprintf("User '%s' added to group '%s'", c.User, c.Group))
}

func (r *Router) leaveGroup(session *Session, c domain.LeaveGroup) {
	removal, err := r.groups.RemoveMember(c.Name, session.Username)
	if err != nil {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, c.Name))
		return
	}
	if removal.Empty {
		r.log.Info("group deleted", "group", c.Name)
		session.TrySend(fmt.Sprintf("Left group '%s'. Group was deleted as it became empty.", c.Name))
		return
	}
	r.notifySuccessor(c.Name, removal)
	r.notifyGroup(c.Name, "", fmt.Sprintf("[%s] %s has left the group", c.Name, session.Username))
	session.TrySend(fmt.Sprintf("Left group '%s'", c.Name))
}

func (r *Router) listGroups(session *Session) {
	summaries := r.groups.ListFor(session.Username)
	if len(summaries) == 0 {
		session.TrySend("You are not a member of any groups")
		return
	}
	rendered := lo.Map(summaries, func(s GroupSummary, _ int) string {
		return fmt.Sprintf("%s (Admin: %s, Members: %d)", s.Name, s.Admin, len(s.Members))
	})
	session.TrySend("Your groups: " + strings.Join(rendered, ", "))
}

func (r *Router) groupMembers(session *Session, c domain.GroupMembers) {
	summary, err := r.groups.MembersOf(c.Name)
	if err != nil {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", err, c.Name))
		return
	}
	if !lo.Contains(summary.Members, session.Username) {
		session.TrySend(fmt.Sprintf("Error: %s: '%s'", errors.ErrNotAMember, c.Name))
		return
	}
	rendered := lo.Map(summary.Members, func(member string, _ int) string {
		if member == summary.Admin {
			return member + " (Admin)"
		}
		return member
	})
	session.TrySend(fmt.Sprintf("Members of '%s': %s", c.Name, strings.Join(rendered, ", ")))
}

func (r *Router) public(session *Session, c domain.PublicMessage) {
	r.persist(session, domain.PublicConversation(), domain.NewMessage(session.Username, domain.PublicChannel, c.Text, time.Now()))
	line := fmt.Sprintf("%s: %s", session.Username, c.Text)
	for _, target := range r.sessions.Snapshot() {
		if target.Username == session.Username {
			continue
		}
		target.TrySend(line)
	}
}

// notifyGroup sends a system line to the online members of a group,
// skipping one username. Not persisted.
func (r *Router) notifyGroup(name, skip, line string) {
	summary, err := r.groups.MembersOf(name)
	if err != nil {
		return
	}
	for _, member := range summary.Members {
		if member == skip {
			continue
		}
		if target, online := r.sessions.Lookup(member); online {
			target.TrySend(line)
		}
	}
}

func (r *Router) notifySuccessor(group string, removal domain.Removal) {
	if removal.Successor == "" {
		return
	}
	if successor, online := r.sessions.Lookup(removal.Successor); online {
		successor.TrySend(fmt.Sprintf("You are now the admin of group '%s'", group))
	}
}

// persist appends the record durably before the message counts as sent.
// A storage failure degrades to a warning so chat stays usable while
// storage is unavailable; live delivery proceeds either way.
func (r *Router) persist(session *Session, conversation domain.Conversation, message domain.Message) {
	if err := r.messages.Append(conversation, message); err != nil {
		r.log.Warn("message append failed", "conversation", conversation.Key(), "error", err)
		session.TrySend(fmt.Sprintf("Warning: %s, your last message may not be recorded", errors.ErrPersistenceDegraded))
	}
}
