package dto

import "time"

// ClientRequest payload for create/update.
type ClientRequest struct {
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"is_active"`
}

// ClientResponse shape.
type ClientResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	Notes       *string   `json:"notes"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionRequest payload for permission upserts.
type PermissionRequest struct {
	CanView       bool `json:"can_view"`
	CanEdit       bool `json:"can_edit"`
	CanDelete     bool `json:"can_delete"`
	CanManageTeam bool `json:"can_manage_team"`
	CanManageTask bool `json:"can_manage_tasks"`
}

// PermissionResponse shape.
type PermissionResponse struct {
	ClientID      string `json:"client_id"`
	UserID        string `json:"user_id"`
	CanView       bool   `json:"can_view"`
	CanEdit       bool   `json:"can_edit"`
	CanDelete     bool   `json:"can_delete"`
	CanManageTeam bool   `json:"can_manage_team"`
	CanManageTask bool   `json:"can_manage_tasks"`
}
