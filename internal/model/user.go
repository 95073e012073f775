// Package model defines domain entities for the application.
package model

import "time"

// Identity is a registered user account.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	DisplayName  string    `json:"full_name"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// Caller returns the public view of the identity used as request caller.
func (i *Identity) Caller() *Caller {
	return &Caller{
		ID:          i.ID,
		Username:    i.Username,
		Email:       i.Email,
		DisplayName: i.DisplayName,
	}
}

// Caller is the authenticated identity a request acts on behalf of.
// It never carries credential material.
type Caller struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
}

// Ownable is implemented by every resource that belongs to one identity.
type Ownable interface {
	Owner() string
}
