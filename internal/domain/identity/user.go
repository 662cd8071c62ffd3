package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.@+-]+$`)

// User is a login identity. Staff users hold every permission.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	IsActive     bool
	Permissions  []string
	LastLoginAt  *time.Time
}

// NewUser creates an active, non-staff user
func NewUser(username, email, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		IsActive:          true,
		Permissions:       []string{},
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// SetName sets first and last name
func (u *User) SetName(first, last string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if utf8.RuneCountInString(first) > 150 || utf8.RuneCountInString(last) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 150 characters")
	}
	u.FirstName = first
	u.LastName = last
	u.Touch()
	return nil
}

// PromoteToStaff grants staff status
func (u *User) PromoteToStaff() {
	u.IsStaff = true
	u.Touch()
}

// GrantPermissions replaces the explicit permission set
func (u *User) GrantPermissions(perms []string) error {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if !IsKnownPermission(p) {
			return shared.NewDomainError("INVALID_PERMISSION", "Unknown permission: "+p)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	u.Permissions = out
	u.Touch()
	return nil
}

// EffectivePermissions is what goes into access tokens
func (u *User) EffectivePermissions() []string {
	if u.IsStaff {
		return []string{PermissionAll}
	}
	return append([]string(nil), u.Permissions...)
}

// Can reports whether the user holds a permission
func (u *User) Can(permission string) bool {
	return HasPermission(u.EffectivePermissions(), permission)
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := shared.Now()
	u.LastLoginAt = &now
	u.Touch()
}

// Deactivate blocks further logins
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 || len(username) > 150 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be between 3 and 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username may only contain letters, digits and @.+-_")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
