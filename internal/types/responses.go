package types

import "time"

type UserResponse struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	IsAdmin              bool   `json:"is_admin"`
	IsProjectLeader      bool   `json:"is_project_leader"`
	IsActive             bool   `json:"is_active"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	ThemeDark            bool   `json:"theme_dark"`
}

type MemberResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	DateJoined time.Time `json:"date_joined"`
}

type JoinRequestResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
