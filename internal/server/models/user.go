// Package models defines the persistent entities of the memorylane server.
package models

import "time"

// User is a local account created on first successful GitHub sign-in.
// Rows are never updated or deleted after creation.
type User struct {
	ID        string
	GithubID  int64
	Login     string
	Name      string
	AvatarURL string
	CreatedAt time.Time
}
