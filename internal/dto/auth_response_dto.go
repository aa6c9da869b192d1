package dto

import "time"

// LoginResponse carries the issued access token; the refresh token travels in
// an HTTP-only cookie.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RefreshRequest asks for a new access token using the refresh-token cookie.
type RefreshRequest struct {
	UserID string `json:"userID" binding:"required,uuid"`
}
