package models

import "time"

// TokenRecord is an append-only audit row for every access token acquired
// from the authority. Rows are retained when the operational caches are
// invalidated.
type TokenRecord struct {
	ID          uint   `gorm:"primaryKey"`
	AccessToken string `gorm:"not null"`
	ExpiryTime  time.Time
	CreatedAt   time.Time
}
