package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dukaanly/possync/internal/client/api"
	"github.com/dukaanly/possync/internal/client/config"
	"github.com/dukaanly/possync/internal/client/netmon"
	"github.com/dukaanly/possync/internal/client/repositories/records"
	"github.com/dukaanly/possync/internal/client/repositories/settings"
	"github.com/dukaanly/possync/internal/client/repositories/syncqueue"
	"github.com/dukaanly/possync/internal/client/services"
	"github.com/dukaanly/possync/internal/client/session"
	"github.com/dukaanly/possync/internal/client/store"
	syncx "github.com/dukaanly/possync/internal/client/sync"
	"github.com/dukaanly/possync/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// probeTimeout bounds a single connectivity probe so a hung connection
// cannot stall the watcher loop.
const probeTimeout = 3 * time.Second

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	session   *session.Session
	queue     syncqueue.Repository
	auth      services.AuthService
	bills     services.RecordService
	products  services.RecordService
	customers services.RecordService
	monitor   *netmon.Monitor
	replayer  *syncx.Replayer
	reader    *bufio.Reader
}

// NewApp opens the local database, runs migrations, and wires the service
// graph: repositories, session, request gateway, connectivity monitor, and
// queue replayer. A replay pass is registered on every offline-to-online
// transition.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	recordsRepo := records.NewSQLiteRepository(db)
	queueRepo := syncqueue.NewSQLiteRepository(db)
	settingsRepo := settings.NewSQLiteRepository(db)

	sess, err := session.Load(ctx, settingsRepo)
	if err != nil {
		db.Close()
		return nil, err
	}

	// The gateway consults the monitor for connectivity and the monitor
	// probes through the gateway, so the online accessor closes over a
	// variable assigned right after.
	var monitor *netmon.Monitor
	gateway := api.New(cfg.ServerBaseURL, cfg.RequestTimeout, sess,
		func() bool { return monitor.Online() }, recordsRepo, queueRepo, log)
	monitor = netmon.New(gateway.Ping, cfg.OnlineCheckInterval, probeTimeout, log)

	replayer := syncx.NewReplayer(queueRepo, gateway, log, nil)
	monitor.OnOnline(func(ctx context.Context) {
		_ = replayer.Drain(ctx)
	})

	return &App{
		config:    cfg,
		log:       log,
		db:        db,
		session:   sess,
		queue:     queueRepo,
		auth:      services.NewAuthService(gateway, sess),
		bills:     services.NewBillService(gateway),
		products:  services.NewProductService(gateway),
		customers: services.NewCustomerService(gateway),
		monitor:   monitor,
		replayer:  replayer,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Mode reports the current connectivity mode as seen by the monitor.
func (a *App) Mode() Mode {
	if a.monitor.Online() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) isLoggedIn() bool {
	return a.auth.Authenticated()
}

// Run starts the connectivity watcher and enters the REPL. It blocks until
// the user exits or ctx is canceled, then closes the database.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	go a.monitor.Start(ctx)

	a.Root(ctx)
}
