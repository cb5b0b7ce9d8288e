package cmd

import (
	"fmt"

	statusadapter "github.com/bnema/smux/internal/adapters/render/status"
	tomlrepo "github.com/bnema/smux/internal/adapters/repo/toml"
	envstore "github.com/bnema/smux/internal/adapters/secrets/env"
	filestore "github.com/bnema/smux/internal/adapters/secrets/file"
	routerstore "github.com/bnema/smux/internal/adapters/secrets/router"
	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/config"
	"github.com/bnema/smux/internal/logging"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
)

type app struct {
	settings       config.Settings
	providers      *tomlrepo.ProviderStore
	secretStore    ports.SecretStore
	credentials    *application.CredentialService
	statusRenderer func(statusadapter.Overview, statusadapter.RenderOptions) (string, error)
	logger         zerolog.Logger
	clock          ports.Clock
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings, err := config.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	providers, err := tomlrepo.NewProviderStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire provider store: %w", err)
	}

	secretStore, err := routerstore.NewStore(filestore.NewStore(settings.SecretsPath))
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}
	secretStore.Handle("env", envstore.NewStore())

	// One-shot commands log to stderr; run opens its own log file.
	logCfg := settings.Log
	logCfg.Path = ""

	return &app{
		settings:       settings,
		providers:      providers,
		secretStore:    secretStore,
		credentials:    application.NewCredentialService(providers, providers, secretStore),
		statusRenderer: statusadapter.Render,
		logger:         logging.New(logCfg, nil),
		clock:          ports.SystemClock{},
	}, nil
}

// providerContext builds a context service for one-shot commands. There are
// no open sessions to notify, so switches are not announced.
func (a *app) providerContext() *application.ProviderContextService {
	return application.NewProviderContextService(a.providers, a.clock, nil)
}
