package domain

import "time"

// Client is the tenant boundary: every project, team and loan hangs off one.
type Client struct {
	ID          string
	OwnerUserID string
	CompanyName string
	ContactName string
	Email       string
	Phone       *string
	Address     *string
	Notes       *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
