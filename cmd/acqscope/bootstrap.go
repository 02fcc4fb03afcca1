package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/acqscope/internal/adapters/driven/config/file"
	"github.com/custodia-labs/acqscope/internal/adapters/driven/drive"
	"github.com/custodia-labs/acqscope/internal/adapters/driven/searchapi"
	"github.com/custodia-labs/acqscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/acqscope/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/cli"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/services"
	"github.com/custodia-labs/acqscope/internal/logger"
	"github.com/custodia-labs/acqscope/internal/normalisers/response"
)

// bootstrap wires the driven adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	// A nil api leaves browsing unavailable while settings and filters
	// still work, so the endpoint can be configured from the CLI.
	var api driven.SearchAPI
	client, err := searchapi.NewClient(settings.API)
	switch {
	case errors.Is(err, domain.ErrSearchUnavailable):
		logger.Debug("Search endpoint not configured")
	case err != nil:
		return nil, fmt.Errorf("creating search client: %w", err)
	default:
		api = client
	}

	var (
		store *sqlite.Store
		cache driven.PageCache
	)
	if settings.Cache.Enabled {
		store, err = sqlite.NewStore(opts.DataDir)
		if err != nil {
			logger.Warn("Page cache unavailable, using memory: %v", err)
			cache = memory.NewPageCache()
		} else {
			cache = store.PageCache()
		}
	}
	cached := services.NewCachedSearchAPI(api, cache, settings.Cache.TTL)
	if api != nil && cache != nil {
		api = cached
	}

	prober, err := newProber(ctx, settings.Images)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	location := memory.NewLocation(domain.Location{})

	return &cli.Services{
		Filters:  services.NewFilterSession(location),
		Browse:   services.NewBrowseService(api, response.New(), settings.Browse),
		Images:   services.NewImageService(prober, settings.Images.Timeout),
		Actions:  services.NewPhotoActionService(),
		Settings: settingsService,
		Cache:    cached,
		Background: func(ctx context.Context, onConfigChange func()) {
			runBackground(ctx, cache, settings.Cache.TTL, configStore, onConfigChange)
		},
		Close: func() error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
	}, nil
}

// newProber checks candidate URLs over HTTP, with Drive metadata checks in
// front when a Drive API key is configured.
func newProber(ctx context.Context, images domain.ImageSettings) (driven.ImageProber, error) {
	web := searchapi.NewProber(searchapi.NewHTTPClient(""))
	if images.DriveAPIKey == "" {
		return web, nil
	}
	svc, err := drive.NewService(ctx, images.DriveAPIKey)
	if err != nil {
		return nil, err
	}
	return drive.NewProber(svc, services.FileID, web), nil
}

func runBackground(
	ctx context.Context,
	cache driven.PageCache,
	ttl time.Duration,
	configStore *file.ConfigStore,
	onConfigChange func(),
) {
	if cache != nil {
		pruner := services.NewCachePruner(cache, ttl)
		go func() {
			if err := pruner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Cache pruner: %v", err)
			}
		}()
		defer pruner.Stop()
	}

	notify := func() {
		logger.Debug("Config changed on disk")
		if onConfigChange != nil {
			onConfigChange()
		}
	}
	if err := file.NewWatcher(configStore, notify).Run(ctx); err != nil {
		logger.Warn("Config watcher: %v", err)
	}
}

func closeStore(store *sqlite.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Warn("Closing page cache: %v", err)
	}
}
