package models

import (
	"fmt"
	"strings"
	"time"
)

// User is an account that can own saved playlists. Identity resolution is a
// narrow lookup: an API token maps to a user id, or to nothing.
type User struct {
	id        string
	sequence  int
	email     string
	name      string
	apiToken  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewUser creates a user entity.
func NewUser(sequence int, email, name, apiToken string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		email:     email,
		name:      name,
		apiToken:  apiToken,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) Email() string         { return u.email }
func (u *User) Name() string          { return u.name }
func (u *User) APIToken() string      { return u.apiToken }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetSequence(sequence int)  { u.sequence = sequence }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// Validate checks user invariants before persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.email) == "" || !strings.Contains(u.email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if u.apiToken == "" {
		return fmt.Errorf("api token is required")
	}
	return nil
}
