package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxNameLen     = 50   // users.name VARCHAR(50)
	MaxEmailLen    = 254  // users.email VARCHAR(254)
	MaxTitleLen    = 120  // videos.title VARCHAR(120)
	MaxDescLen     = 5000 // videos.description / comments.description TEXT cap
	MinPasswordLen = 8
	MaxTagCount    = 10
)

var (
	// uuidRe matches the canonical form of DB-generated row IDs.
	uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// nameRe matches display names: letters, digits, spaces, a few separators.
	nameRe = regexp.MustCompile(`^[\p{L}\p{N} ._-]+$`)
	// emailRe is a permissive shape check; real validation happens on delivery.
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID checks that a path ID is a well-formed UUID.
func ValidateID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "id is required"
	}
	if !uuidRe.MatchString(id) {
		return "", "id is not a valid identifier"
	}
	return id, ""
}

// ValidateName checks a user display name.
func ValidateName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "name is required"
	}
	if len(name) > MaxNameLen {
		return "", "name must be at most 50 characters"
	}
	if !nameRe.MatchString(name) {
		return "", "name contains invalid characters"
	}
	return name, ""
}

// ValidateEmail checks the shape of an email address.
func ValidateEmail(email string) (string, string) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", "email is required"
	}
	if len(email) > MaxEmailLen {
		return "", "email must be at most 254 characters"
	}
	if !emailRe.MatchString(email) {
		return "", "email is not valid"
	}
	return email, ""
}

// ValidatePassword enforces the minimum password length. It never trims:
// whitespace is part of the password.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLen {
		return "password must be at least 8 characters"
	}
	return ""
}

// ValidateTitle checks a video or playlist title.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "title is required"
	}
	if len(title) > MaxTitleLen {
		return "", "title must be at most 120 characters"
	}
	return title, ""
}

// ValidateDesc trims and bounds free-form description text.
func ValidateDesc(desc string) (string, string) {
	desc = strings.TrimSpace(desc)
	if len(desc) > MaxDescLen {
		return "", "description must be at most 5000 characters"
	}
	return desc, ""
}

// ValidateTags normalizes a tag list: trimmed, lowercased, empty entries
// dropped, capped at MaxTagCount.
func ValidateTags(tags []string) ([]string, string) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	if len(out) > MaxTagCount {
		return nil, "at most 10 tags are allowed"
	}
	return out, ""
}
