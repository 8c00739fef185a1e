package models

import "time"

// Integration setting types
const (
	IntegrationTypeLHDN = "LHDN"
)

// Environment values for an integration setting
const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// IntegrationSetting is a persisted configuration row for an external
// integration. Exactly one row per type is active at a time; the most
// recently created active row wins.
type IntegrationSetting struct {
	ID            uint   `gorm:"primaryKey"`
	Type          string `gorm:"not null;index"`
	Environment   string `gorm:"not null;default:'sandbox'"`
	SandboxURL    string
	ProductionURL string
	MiddlewareURL string // shared fallback when environment-specific URLs are absent
	ClientID      string `gorm:"not null"`
	ClientSecret  string `gorm:"not null"`

	// Request behaviour, durations in milliseconds as stored by the portal
	TimeoutMS       int  `gorm:"not null;default:60000"`
	RetryEnabled    bool `gorm:"not null;default:true"`
	MaxRetries      int  `gorm:"not null;default:3"`
	RetryDelayMS    int  `gorm:"not null;default:1000"`
	MaxRetryDelayMS int  `gorm:"not null;default:10000"`

	// Rate limiting toward the authority
	RateLimitSubmissions   int `gorm:"not null;default:100"` // requests per minute ceiling
	RateLimitMinIntervalMS int `gorm:"not null;default:300"`

	IsActive  bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
