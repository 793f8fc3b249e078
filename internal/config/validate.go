package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	roomPattern  = regexp.MustCompile(`^[A-Za-z0-9-]{4,24}$`)
)

// FieldError describes a single invalid user setting. It is meant for
// inline display next to the offending form field, not for wrapping.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the user-facing settings and returns one FieldError per
// invalid field. An empty slice means the config is usable.
func (u UserConfig) Validate() []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(u.Name)
	if name == "" {
		errs = append(errs, FieldError{"name", "display name must not be empty"})
	} else if utf8.RuneCountInString(name) > 32 {
		errs = append(errs, FieldError{"name", "display name must be at most 32 characters"})
	}

	if !colorPattern.MatchString(u.Color) {
		errs = append(errs, FieldError{"color", "color must be a hex value like #cc2222"})
	}

	// Room code is optional; an empty value means playing solo.
	if u.RoomCode != "" && !roomPattern.MatchString(u.RoomCode) {
		errs = append(errs, FieldError{"room_code", "room code must be 4-24 letters, digits or dashes"})
	}

	return errs
}
