package domain

import (
	"fmt"
	"strings"
	"unicode"

	"chat-hub/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// usernameClaim mirrors the first line a client sends: the identity it
// wants to go by. The routing prefixes are forbidden so a username can
// never collide with the protocol, and the storage key separators '/'
// and ':' are forbidden so no legal name can extend another
// conversation's key prefix.
type usernameClaim struct {
	Username string `validate:"required,excludesall=@#/:"`
}

// groupNameClaim carries the name of a group to create. Group names obey
// the same alphabet as usernames: they end up in the same storage key
// positions.
type groupNameClaim struct {
	Name string `validate:"required,excludesall=@#/:"`
}

// ValidateUsername checks a claimed username before registration.
func ValidateUsername(username string) error {
	if err := validate.Struct(usernameClaim{Username: username}); err != nil {
		return fmt.Errorf("%w: must be non-empty and free of @, #, / and :", errors.ErrInvalidUsername)
	}
	if strings.ContainsFunc(username, unicode.IsSpace) {
		return fmt.Errorf("%w: must not contain whitespace", errors.ErrInvalidUsername)
	}
	return nil
}

// ValidateGroupName checks a group name before the group is created.
func ValidateGroupName(name string) error {
	if err := validate.Struct(groupNameClaim{Name: name}); err != nil {
		return fmt.Errorf("%w: must be non-empty and free of @, #, / and :", errors.ErrInvalidGroupName)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: must not contain whitespace", errors.ErrInvalidGroupName)
	}
	return nil
}
