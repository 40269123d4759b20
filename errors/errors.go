package errors

import (
	"errors"
	"fmt"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

var (
	ErrUsernameTaken       = fmt.Errorf("username already taken")
	ErrInvalidUsername     = fmt.Errorf("invalid username")
	ErrInvalidGroupName    = fmt.Errorf("invalid group name")
	ErrGroupExists         = fmt.Errorf("group already exists")
	ErrNoSuchGroup         = fmt.Errorf("group does not exist")
	ErrNoSuchUser          = fmt.Errorf("user is not online")
	ErrNotAMember          = fmt.Errorf("not a member of the group")
	ErrAlreadyMember       = fmt.Errorf("already a member of the group")
	ErrNotAdmin            = fmt.Errorf("only the admin can do this")
	ErrUserOffline         = fmt.Errorf("user is offline")
	ErrMalformedCommand    = fmt.Errorf("malformed command")
	ErrPersistenceDegraded = fmt.Errorf("persistence degraded")
	ErrSessionClosed       = fmt.Errorf("session closed")
)
