package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one logged-in device. Tokens reference it by ID so it can be revoked.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	RefreshID uuid.UUID `json:"refresh_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// PreviousRefreshID stays redeemable until RotatedAt plus the refresh grace window
	PreviousRefreshID uuid.UUID `json:"previous_refresh_id"`
	RotatedAt         time.Time `json:"rotated_at"`
}

// ClientInfo describes the caller that opens a session
type ClientInfo struct {
	UserAgent string
	ClientIP  string
}
