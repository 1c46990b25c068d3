// Command marble-server serves one lottery over HTTP and websocket
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/marble-lottery/automation"
	"github.com/lixenwraith/marble-lottery/config"
	"github.com/lixenwraith/marble-lottery/server"
	"github.com/lixenwraith/marble-lottery/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "marble-server: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command line settings
type options struct {
	cfg       config.Config
	entities  string
	noArchive bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	cfg, err := config.Load()
	if err != nil {
		return options{}, err
	}
	o := options{}
	fs := flag.NewFlagSet("marble-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	config.SeedVar(fs, &cfg.Seed, "seed", "RNG seed, 0 to 4294967295")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "layout name, preset or .toml file")
	fs.IntVar(&cfg.Slots, "slots", cfg.Slots, "slot count override, 0 keeps the layout's")
	fs.StringVar(&cfg.Lottery, "lottery", cfg.Lottery, "lottery .toml file")
	fs.StringVar(&o.entities, "entities", "", "entity list id[:count],... when no lottery file is given")
	fs.IntVar(&cfg.TickHz, "tick", cfg.TickHz, "simulation steps per second")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&o.noArchive, "no-archive", false, "do not save finished runs")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	o.cfg = cfg
	return o, nil
}

// newHub builds the game, the optional archive and the hub
// The returned closer releases the archive
func newHub(ctx context.Context, o options, logger *log.Logger) (*server.Hub, func() error, error) {
	lottery, err := o.cfg.ResolveLottery(o.entities)
	if err != nil {
		return nil, nil, err
	}
	s, err := config.NewGame(o.cfg, lottery)
	if err != nil {
		return nil, nil, err
	}

	closer := func() error { return nil }
	var archive server.Archive
	if !o.noArchive {
		st, err := store.Open(ctx, o.cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		archive = st
		closer = st.Close
	}

	d := automation.NewDriver(s, o.cfg.TickHz, logger)
	return server.NewHub(d, archive, logger), closer, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger := log.New(stderr, "marble-server ", log.LstdFlags)

	hub, closeArchive, err := newHub(ctx, o, logger)
	if err != nil {
		return err
	}
	defer closeArchive()

	srv := &http.Server{
		Addr:              o.cfg.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", o.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
