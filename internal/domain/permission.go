package domain

import "time"

// ClientPermission holds the per-user access flags for one client.
// One row per (client, user) pair; the owner row carries every flag.
type ClientPermission struct {
	ID            string
	ClientID      string
	UserID        string
	CanView       bool
	CanEdit       bool
	CanDelete     bool
	CanManageTeam bool
	CanManageTask bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnerPermission returns the full-flag row granted to a client creator.
func OwnerPermission(clientID, userID string) *ClientPermission {
	return &ClientPermission{
		ClientID:      clientID,
		UserID:        userID,
		CanView:       true,
		CanEdit:       true,
		CanDelete:     true,
		CanManageTeam: true,
		CanManageTask: true,
	}
}
