package models

import (
	"time"
)

// Session is an authenticated admin identity. Sessions live only in process
// memory; a restart invalidates every outstanding token.
type Session struct {
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issuedAt"`
}
