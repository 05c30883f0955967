package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
)

// ErrNoPassword is returned when a user would be stored without a hash.
var ErrNoPassword = errors.New("models: user has no password")

// User is an account able to sign in. Password only ever holds a bcrypt hash.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	Name      string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" bson:"email" json:"email"`
	Password  string    `gorm:"size:255;not null" bson:"password,omitempty" json:"-"`
	Role      string    `gorm:"size:50;not null" bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	plaintext string
}

// NewUser builds an unsaved user with a fresh id. An empty role becomes
// customer; the email is normalised to lower case.
func NewUser(name, email, role string) *User {
	if role == "" {
		role = auth.RoleCustomer
	}
	return &User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
		Role:  role,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword stages a new plaintext password. It is hashed by
// HashPendingPassword before the user is persisted.
func (u *User) SetPassword(plain string) {
	u.plaintext = plain
}

// HashPendingPassword replaces Password with the hash of a staged plaintext,
// then clears it. Without a staged value the stored hash is left untouched,
// so saving the same user twice never re-hashes a hash.
func (u *User) HashPendingPassword() error {
	if u.plaintext == "" {
		if u.Password == "" {
			return ErrNoPassword
		}
		return nil
	}
	hash, err := auth.HashPassword(u.plaintext)
	if err != nil {
		return err
	}
	u.Password = hash
	u.plaintext = ""
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return u.Password != "" && auth.CheckPassword(u.Password, plain)
}

// Identity is the view of u attached to authenticated requests.
func (u *User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// BeforeSave is the gorm hook that hashes a staged password.
func (u *User) BeforeSave(*gorm.DB) error {
	return u.HashPendingPassword()
}
