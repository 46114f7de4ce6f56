package models

import "time"

// DefaultAvatarURL is used until the user uploads a profile photo.
const DefaultAvatarURL = "https://s3.amazonaws.com/37assets/svn/765-default-avatar.png"

// User represents a storefront account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(100)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password     string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Street       string    `json:"street"`
	Apartment    string    `json:"apartment"`
	City         string    `json:"city"`
	Zip          string    `json:"zip"`
	Country      string    `json:"country"`
	Phone        string    `json:"phone"`
	ProfilePhoto Image     `json:"profilePhoto" gorm:"embedded;embeddedPrefix:profile_photo_"`
	IsAdmin      bool      `json:"isAdmin"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VerificationToken gates the one-way Unverified -> Verified transition. It is
// created at registration and deleted exactly once on successful verification.
type VerificationToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"index;type:varchar(36)"`
	Token     string    `json:"token" gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"createdAt"`
}
