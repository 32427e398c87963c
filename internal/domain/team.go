package domain

import "time"

// Team represents a named group of users under a client.
type Team struct {
	ID          string
	ClientID    string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember is a join row linking a user into a team.
type TeamMember struct {
	ID      string
	TeamID  string
	UserID  string
	Role    string
	AddedAt time.Time
}
