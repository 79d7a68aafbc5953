package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/client/client"
	"github.com/dmitrijs2005/tripshare/internal/client/config"
	"github.com/dmitrijs2005/tripshare/internal/client/session"
	"github.com/dmitrijs2005/tripshare/internal/client/workspace"
	"github.com/dmitrijs2005/tripshare/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

type App struct {
	config *config.Config
	api    client.Client
	ws     *workspace.Workspace
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	mode   atomic.Value
}

// NewApp dials the server and builds the workspace. Dialing is lazy, so an
// unreachable server surfaces on the first call rather than here.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	api, err := client.NewTripPlannerClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, bufio.NewReader(os.Stdin), os.Stdout, log), nil
}

func newApp(c *config.Config, api client.Client, r *bufio.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		config: c,
		api:    api,
		ws:     workspace.New(api, c.MaxPinAttempts, log),
		log:    log.With("module", "cli"),
		reader: r,
		out:    out,
	}
	a.mode.Store(ModeOnline)
	return a
}

// Run loads users and settings and then serves the REPL until the user
// exits or ctx ends. A failed initial load is returned without starting
// the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.api.Close()

	if err := a.ws.Init(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, 15*time.Second)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) setMode(mode Mode) {
	if prev := a.mode.Swap(mode); prev != mode {
		a.log.Info(context.Background(), "connection mode changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	return a.mode.Load().(Mode)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// prompt between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pctx)
			cancel()
			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.ws.Session().State == session.Authenticated
}

// status is the prompt prefix: connection mode, then who is logged in.
func (a *App) status() string {
	snap := a.ws.Session()
	var who string
	switch snap.State {
	case session.Authenticated:
		who = fmt.Sprintf("%s (%s)", snap.User.FirstName(), snap.User.Role.Title())
	case session.AwaitingPin:
		who = "pin for " + snap.Candidate.Name
	default:
		who = "not logged in"
	}
	return fmt.Sprintf("[%s] %s", a.Mode(), who)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
