package models

import "time"

// Memory is a journal entry owned by exactly one user. The owner is fixed at
// creation; IsPublic only controls third-party read visibility.
type Memory struct {
	ID        string
	UserID    string
	Content   string
	CoverURL  string
	Date      *time.Time
	IsPublic  bool
	CreatedAt time.Time
}
