package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	chainstore "github.com/bnema/tradedesk/internal/adapters/blob/chain"
	filestore "github.com/bnema/tradedesk/internal/adapters/blob/file"
	passstore "github.com/bnema/tradedesk/internal/adapters/blob/pass"
	"github.com/bnema/tradedesk/internal/adapters/navigation"
	"github.com/bnema/tradedesk/internal/adapters/remote/httpapi"
	statusadapter "github.com/bnema/tradedesk/internal/adapters/render/status"
	tomlrepo "github.com/bnema/tradedesk/internal/adapters/repo/toml"
	"github.com/bnema/tradedesk/internal/application"
	"github.com/bnema/tradedesk/internal/config"
	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/logging"
	"github.com/bnema/tradedesk/internal/ports"
	"github.com/bnema/tradedesk/internal/session"
)

// app holds the per-invocation session: the store rehydrated from the
// snapshot, with persistence and the refresh cycle attached.
type app struct {
	viper          *viper.Viper
	clock          ports.Clock
	httpClient     *http.Client
	statusRenderer func(domain.SessionState, statusadapter.RenderOptions) (string, error)

	cfg       config.Config
	logger    *slog.Logger
	store     *session.Store
	snapshots *tomlrepo.SnapshotRepository
	service   *application.SessionService
	refresher *application.PortfolioRefresher
	detach    func()
}

func newApp(v *viper.Viper) *app {
	return &app{
		viper:          v,
		clock:          ports.SystemClock{},
		httpClient:     http.DefaultClient,
		statusRenderer: statusadapter.Render,
	}
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.viper)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		return fmt.Errorf("wire session storage: %w", err)
	}

	snapshots := tomlrepo.NewSnapshotRepository(blobs, cfg.StorageKey)
	store := session.NewStore(application.RestoreState(cmd.Context(), snapshots, logger))
	persister := application.NewSnapshotPersister(snapshots, logger)

	client := httpapi.Client{
		BaseURL:        cfg.APIBaseURL,
		HTTPClient:     a.httpClient,
		RequestTimeout: cfg.APITimeout,
		Token:          store.Token,
	}
	navigator := navigation.NewPrinter(cmd.OutOrStdout(), logger)

	a.cfg = cfg
	a.logger = logger
	a.store = store
	a.snapshots = snapshots
	a.detach = persister.Attach(store)
	a.service = application.NewSessionService(store, client, navigator, a.clock, logger)
	a.refresher = application.NewPortfolioRefresher(store, client, a.clock, cfg.RefreshInterval, logger)
	a.refresher.Start()

	return nil
}

func (a *app) close() {
	if a.refresher != nil {
		a.refresher.Close()
	}
	if a.detach != nil {
		a.detach()
	}
}

// withSession opens the session around run and always closes it.
func withSession(a *app, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd); err != nil {
			return err
		}
		defer a.close()

		return run(cmd, args)
	}
}

// ensureFreshToken refreshes a token that is about to expire before a remote
// call that needs it.
func (a *app) ensureFreshToken(ctx context.Context) error {
	if _, err := a.service.EnsureFreshToken(ctx, a.cfg.TokenRefreshSkew); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return fmt.Errorf("%w: run `td login` first", err)
		}
		return err
	}
	return nil
}

func newBlobStore(cfg config.Config) (ports.BlobStore, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return filestore.NewStore(cfg.StorageDir), nil
	case config.BackendPass:
		return passstore.NewStore(), nil
	case config.BackendChain:
		return chainstore.NewPassFirstWithFileFallback(cfg.StorageDir)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
