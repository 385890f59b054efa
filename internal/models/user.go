// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an identity owned by the external auth subsystem. Posts and
// comments hold a non-owning reference to it; this service only ever reads
// the display name and the linked profile.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `gorm:"uniqueIndex" json:"-"`
	PasswordHash string   `json:"-"`
	Profile      *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Profile is the one-to-one extension of User holding the profile image.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"not null;uniqueIndex" json:"-"`
	Image  string `json:"image"`
}
