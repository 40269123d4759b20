package domain

import (
	"fmt"
	"strings"

	"chat-hub/errors"
)

// Command is the closed set of intents a single protocol line can carry.
// Decoding happens once, at the router boundary; anything unmatched is
// rejected as a protocol error and never reaches the registries.
type Command interface{ isCommand() }

type PrivateMessage struct{ To, Text string }

type GroupMessage struct{ Group, Text string }

type CreateGroup struct{ Name string }

type AddToGroup struct{ Group, User string }

type LeaveGroup struct{ Name string }

type ListGroups struct{}

type GroupMembers struct{ Name string }

type ListUsers struct{}

type Quit struct{}

type PublicMessage struct{ Text string }

func (PrivateMessage) isCommand() {}
func (GroupMessage) isCommand()   {}
func (CreateGroup) isCommand()    {}
func (AddToGroup) isCommand()     {}
func (LeaveGroup) isCommand()     {}
func (ListGroups) isCommand()     {}
func (GroupMembers) isCommand()   {}
func (ListUsers) isCommand()      {}
func (Quit) isCommand()           {}
func (PublicMessage) isCommand()  {}

// ParseLine classifies one inbound line.
func ParseLine(line string) (Command, error) {
	line = strings.TrimRight(line, "\r")
	switch {
	case strings.HasPrefix(line, "@"):
		to, text, ok := strings.Cut(line[1:], " ")
		if !ok || to == "" || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: use @username message", errors.ErrMalformedCommand)
		}
		return PrivateMessage{To: to, Text: text}, nil
	case strings.HasPrefix(line, "#"):
		group, text, ok := strings.Cut(line[1:], " ")
		if !ok || group == "" || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: use #groupname message", errors.ErrMalformedCommand)
		}
		return GroupMessage{Group: group, Text: text}, nil
	case strings.HasPrefix(line, "/"):
		return parseSlash(line[1:])
	case strings.TrimSpace(line) == "":
		return nil, fmt.Errorf("%w: empty line", errors.ErrMalformedCommand)
	default:
		return PublicMessage{Text: line}, nil
	}
}

func parseSlash(line string) (Command, error) {
	name, args, _ := strings.Cut(line, " ")
	switch name {
	case "creategroup":
		group := strings.TrimSpace(args)
		if group == "" {
			return nil, fmt.Errorf("%w: usage /creategroup groupname", errors.ErrMalformedCommand)
		}
		return CreateGroup{Name: group}, nil
	case "addtogroup":
		parts := strings.Fields(args)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: usage /addtogroup groupname username", errors.ErrMalformedCommand)
		}
		return AddToGroup{Group: parts[0], User: parts[1]}, nil
	case "leavegroup":
		group := strings.TrimSpace(args)
		if group == "" {
			return nil, fmt.Errorf("%w: usage /leavegroup groupname", errors.ErrMalformedCommand)
		}
		return LeaveGroup{Name: group}, nil
	case "groupmembers":
		group := strings.TrimSpace(args)
		if group == "" {
			return nil, fmt.Errorf("%w: usage /groupmembers groupname", errors.ErrMalformedCommand)
		}
		return GroupMembers{Name: group}, nil
	case "listgroups":
		return ListGroups{}, nil
	case "users":
		return ListUsers{}, nil
	case "quit":
		return Quit{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown command /%s", errors.ErrMalformedCommand, name)
	}
}
