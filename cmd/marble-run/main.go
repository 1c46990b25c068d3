// Command marble-run simulates one lottery headless and prints the finish order
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/lixenwraith/marble-lottery/automation"
	"github.com/lixenwraith/marble-lottery/config"
	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/store"
)

// errNoWinner reports a run that exhausted its step budget
var errNoWinner = errors.New("no winner within step budget")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "marble-run: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("marble-run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	config.SeedVar(fs, &cfg.Seed, "seed", "RNG seed, 0 to 4294967295")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "layout name, preset or .toml file")
	fs.IntVar(&cfg.Slots, "slots", cfg.Slots, "slot count override, 0 keeps the layout's")
	fs.StringVar(&cfg.Lottery, "lottery", cfg.Lottery, "lottery .toml file")
	entities := fs.String("entities", "", "entity list id[:count],... when no lottery file is given")
	fs.IntVar(&cfg.TickHz, "tick", cfg.TickHz, "simulation steps per second")
	budget := fs.Int("steps", parameter.DefaultRunStepBudget, "step budget before giving up")
	asJSON := fs.Bool("json", false, "print the final snapshot as JSON")
	archive := fs.Bool("archive", false, "save the run to the database")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	list := fs.Int("list", 0, "print the N most recent archived runs and exit")
	verbose := fs.Bool("v", cfg.Debug, "log run events to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	if *list > 0 {
		return listRuns(ctx, cfg.DBPath, *list, stdout)
	}

	lottery, err := cfg.ResolveLottery(*entities)
	if err != nil {
		return err
	}
	s, err := config.NewGame(cfg, lottery)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "marble-run ", log.Lmicroseconds)
	}
	d := automation.NewDriver(s, cfg.TickHz, logger)
	if err := d.Start(); err != nil {
		return err
	}
	d.Drop()
	finished := d.RunToCompletion(*budget)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.Snapshot()); err != nil {
			return err
		}
	} else {
		printResults(stdout, s)
	}

	if *archive {
		st, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveRun(ctx, store.RunFromState(s))
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "archived run %d\n", id)
	}

	if !finished {
		return fmt.Errorf("%w: %d of %d finished after %d steps", errNoWinner, len(s.Finished), s.TotalToDrop, *budget)
	}
	return nil
}

func printResults(w io.Writer, s *engine.GameState) {
	fmt.Fprintf(w, "board %s (%s), seed %d, %d marbles\n", s.Board.Name, s.Board.Kind, s.Seed, s.TotalToDrop)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tmarble\tentity\tslot\tt")
	for i, rec := range s.Finished {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.3f\n", i+1, rec.MarbleID, rec.EntityID, rec.Label, rec.T)
	}
	tw.Flush()
	if win := s.Winner; win != nil {
		fmt.Fprintf(w, "winner: marble %d (%s) in slot %s at t=%.3f\n", win.MarbleID, win.EntityID, win.Label, win.T)
	} else {
		fmt.Fprintln(w, "no winner")
	}
}

func listRuns(ctx context.Context, path string, n int, w io.Writer) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()
	runs, err := st.ListRuns(ctx, n)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tcreated\tseed\tboard\tmarbles\twinner")
	for _, r := range runs {
		winner := "-"
		if r.Winner != nil {
			winner = fmt.Sprintf("%d (%s) slot %s", r.Winner.MarbleID, r.Winner.EntityID, r.Winner.Label)
		}
		total := 0
		for _, c := range r.Counts {
			total += c
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Seed, r.Board, total, winner)
	}
	return tw.Flush()
}
