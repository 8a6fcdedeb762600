package session

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// avatarBaseURL generates deterministic cartoon avatars seeded by name.
const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// User is the minimal logged-in identity.
type User struct {
	ID        string
	Name      string
	Email     string
	Image     string
	CreatedAt time.Time
}

// NewUser validates name and email and builds a user with a generated avatar.
func NewUser(id, name, email string, now time.Time) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return User{}, fmt.Errorf("name is required")
	}
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("email %q is not a valid address", email)
	}

	return User{
		ID:        id,
		Name:      name,
		Email:     email,
		Image:     AvatarURL(name),
		CreatedAt: now.UTC(),
	}, nil
}

// AvatarURL returns the generated avatar reference for a display name.
// Spaces are encoded as %20 so the seed matches what browsers send.
func AvatarURL(name string) string {
	return avatarBaseURL + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
