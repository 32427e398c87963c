package dto

import "time"

// TeamRequest payload for create/update.
type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// TeamMembersRequest payload for bulk add/remove.
type TeamMembersRequest struct {
	UserIDs []string `json:"user_ids"`
	Role    string   `json:"role,omitempty"`
}

// TeamMemberResponse shape.
type TeamMemberResponse struct {
	UserID  string    `json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// TeamResponse shape.
type TeamResponse struct {
	ID          string               `json:"id"`
	ClientID    string               `json:"client_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"is_active"`
	Members     []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
