package bootstrap

import (
	"log"
	"net/http"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/cache"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/tokenfile"

	httpclient "github.com/appleboy/go-httpclient"
)

// initializeLHDNStack wires the token tiers, session manager, and submission
// client against the authority API.
func initializeLHDNStack(
	cfg *config.Config,
	db *store.Store,
	prometheusMetrics core.Recorder,
) (*lhdn.ConfigProvider, *lhdn.TokenStore, *lhdn.SessionManager, *lhdn.Client) {
	provider := lhdn.NewConfigProvider(db)

	tokenStore := lhdn.NewTokenStore(
		cache.NewMemoryCache[lhdn.AccessToken](),
		tokenfile.New(cfg.TokenFilePath),
		db,
		prometheusMetrics,
	)
	log.Printf("Token file tier: %s", cfg.TokenFilePath)

	outboundClient := createOutboundHTTPClient()
	acquirer := lhdn.NewAcquirer(outboundClient, tokenStore)
	sessions := lhdn.NewSessionManager(provider, tokenStore, acquirer, prometheusMetrics)
	authorityAPI := lhdn.NewClient(provider, sessions, outboundClient, prometheusMetrics)

	return provider, tokenStore, sessions, authorityAPI
}

// createOutboundHTTPClient creates the HTTP client used for all authority API
// requests. Per-request deadlines come from the integration settings, so the
// base timeout only caps runaway connections.
func createOutboundHTTPClient() *http.Client {
	client, err := httpclient.NewAuthClient(httpclient.AuthModeNone, "",
		httpclient.WithTimeout(lhdn.MaxTimeout),
	)
	if err != nil {
		log.Fatalf("Failed to create authority HTTP client: %v", err)
	}
	return client
}
