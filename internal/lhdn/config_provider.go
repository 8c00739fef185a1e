package lhdn

import (
	"errors"
	"fmt"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"
)

// SettingsStore provides access to persisted integration settings.
type SettingsStore interface {
	ActiveIntegrationSetting(integrationType string) (*models.IntegrationSetting, error)
}

// ConfigProvider resolves the active LHDN integration configuration. It is
// read-only: every call re-reads the settings row, so configuration changes
// take effect between operations without a restart.
type ConfigProvider struct {
	store SettingsStore
}

func NewConfigProvider(s SettingsStore) *ConfigProvider {
	return &ConfigProvider{store: s}
}

// ActiveConfig returns the resolved configuration for the current operation.
func (p *ConfigProvider) ActiveConfig() (*Config, error) {
	setting, err := p.store.ActiveIntegrationSetting(models.IntegrationTypeLHDN)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("lhdn: load integration settings: %w", err)
	}

	baseURL := resolveBaseURL(setting)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: no base URL for environment %q",
			ErrConfigInvalid, setting.Environment)
	}

	if setting.ClientID == "" || setting.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client credentials", ErrConfigInvalid)
	}

	return &Config{
		Environment:  setting.Environment,
		BaseURL:      baseURL,
		ClientID:     setting.ClientID,
		ClientSecret: setting.ClientSecret,

		Timeout:       clampTimeout(time.Duration(setting.TimeoutMS) * time.Millisecond),
		RetryEnabled:  setting.RetryEnabled,
		MaxRetries:    setting.MaxRetries,
		RetryDelay:    time.Duration(setting.RetryDelayMS) * time.Millisecond,
		MaxRetryDelay: time.Duration(setting.MaxRetryDelayMS) * time.Millisecond,

		RateLimit: RateLimit{
			SubmissionRequests: setting.RateLimitSubmissions,
			MinInterval:        time.Duration(setting.RateLimitMinIntervalMS) * time.Millisecond,
		},
	}, nil
}

// resolveBaseURL picks the environment-specific URL, falling back to the
// shared middleware URL when it is absent.
func resolveBaseURL(setting *models.IntegrationSetting) string {
	var url string
	switch setting.Environment {
	case models.EnvironmentProduction:
		url = setting.ProductionURL
	default:
		url = setting.SandboxURL
	}
	if url == "" {
		url = setting.MiddlewareURL
	}
	return url
}

func clampTimeout(d time.Duration) time.Duration {
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}
