package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"labsched/internal/platform/text"
)

// Persisted storage keys.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

type Role string

const (
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// UserProfile is the snapshot returned at login. It is never refreshed except
// by logging in again.
type UserProfile struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active,omitempty"`
}

// DisplayRole capitalises the role for the identity header.
func (p UserProfile) DisplayRole() string {
	return text.Capitalize(string(p.Role))
}

// Initial is the avatar letter.
func (p UserProfile) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(p.FullName))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

type Session struct {
	Token string
	User  UserProfile
}

// Stored is the raw key-value pair as it sits in persistent storage. Either
// field may be empty.
type Stored struct {
	Token    string
	UserData string
}

// ParseProfile decodes the user_data payload. Anything that is not a JSON
// object is rejected.
func ParseProfile(raw string) (UserProfile, error) {
	var profile *UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return UserProfile{}, fmt.Errorf("decode user profile: %w", err)
	}
	if profile == nil {
		return UserProfile{}, fmt.Errorf("decode user profile: null payload")
	}
	return *profile, nil
}

func EncodeProfile(p UserProfile) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode user profile: %w", err)
	}
	return string(raw), nil
}

// Visibility says which role-gated tabs are shown. Dashboard and schedule are
// always visible.
type Visibility struct {
	Reservation bool
	Approvals   bool
	Reports     bool
}

// VisibilityFor is a pure function of the role.
func VisibilityFor(role Role) Visibility {
	return Visibility{
		Reservation: role == RoleInstructor || role == RoleAdmin,
		Approvals:   role == RoleAdmin,
		Reports:     role == RoleAdmin,
	}
}
