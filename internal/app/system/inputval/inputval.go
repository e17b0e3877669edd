// Package inputval normalizes and validates request input before it
// reaches the stores.
package inputval

import (
	"strings"

	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
)

// MaxNameLen caps group names; longer input is a caller bug, not
// something to silently truncate.
const MaxNameLen = 200

// MaxDescriptionLen caps group descriptions.
const MaxDescriptionLen = 2000

var strict = bluemonday.StrictPolicy()

// SanitizeText strips all markup from free-text input and trims
// whitespace. Group names and descriptions are rendered by downstream
// UIs we do not control, so nothing tag-shaped survives storage.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// ValidName reports whether a sanitized name is acceptable.
func ValidName(name string) bool {
	return name != "" && len(name) <= MaxNameLen
}

// ValidDescription reports whether a sanitized description is acceptable.
func ValidDescription(desc string) bool {
	return len(desc) <= MaxDescriptionLen
}

// ParseGroupType parses a group type from request input.
func ParseGroupType(s string) (models.GroupType, bool) {
	t := models.GroupType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// ParseMemberRole parses a member role from request input. Empty input
// yields the default role member.
func ParseMemberRole(s string) (models.MemberRole, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return models.RoleMember, true
	}
	r := models.MemberRole(trimmed)
	return r, r.Valid()
}

// ParseUserRoles parses a list of user roles for access criteria,
// rejecting the whole list on the first unknown entry.
func ParseUserRoles(in []string) ([]models.UserRole, bool) {
	out := make([]models.UserRole, 0, len(in))
	for _, s := range in {
		r := models.UserRole(strings.ToLower(strings.TrimSpace(s)))
		if !r.Valid() {
			return nil, false
		}
		out = append(out, r)
	}
	return out, true
}

// CleanStrings trims each entry and drops empties, preserving order.
func CleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
