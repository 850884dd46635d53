package models

import "time"

const (
	// DefaultUserID represents the initial single-profile owner.
	DefaultUserID = "default"
	// DefaultUserName is used when creating the initial profile.
	DefaultUserName = "Primary Profile"
)

// User models a Curatarr profile holding content preferences.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color,omitempty"`
	IsKidsProfile bool      `json:"isKidsProfile"` // Whether this is a kids profile with content restrictions
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
