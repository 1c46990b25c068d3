// Command marble-lottery runs a lottery in the terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marble-lottery/audio"
	"github.com/lixenwraith/marble-lottery/automation"
	"github.com/lixenwraith/marble-lottery/config"
	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/events"
	"github.com/lixenwraith/marble-lottery/render"
	"github.com/lixenwraith/marble-lottery/store"
)

const frameInterval = 16 * time.Millisecond

func main() {
	var screen tcell.Screen

	// Panic Recovery: Ensure terminal is reset even if the viewer crashes
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mMARBLE-LOTTERY CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "marble-lottery: %v\n", err)
		os.Exit(1)
	}
	config.SeedVar(flag.CommandLine, &cfg.Seed, "seed", "RNG seed, 0 to 4294967295")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, "layout name, preset or .toml file")
	flag.IntVar(&cfg.Slots, "slots", cfg.Slots, "slot count override, 0 keeps the layout's")
	flag.StringVar(&cfg.Lottery, "lottery", cfg.Lottery, "lottery .toml file")
	entities := flag.String("entities", "", "entity list id[:count],... when no lottery file is given")
	flag.IntVar(&cfg.TickHz, "tick", cfg.TickHz, "simulation steps per second")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write logs/marble-lottery.log")
	mute := flag.Bool("mute", !cfg.AudioEnabled, "disable sound")
	archive := flag.Bool("archive", false, "save finished runs to the database")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "marble-lottery: %v\n", err)
		os.Exit(1)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	lottery, err := cfg.ResolveLottery(*entities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marble-lottery: %v\n", err)
		os.Exit(1)
	}
	s, err := config.NewGame(cfg, lottery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marble-lottery: %v\n", err)
		os.Exit(1)
	}
	d := automation.NewDriver(s, cfg.TickHz, log.Default())

	// Audio is optional, the viewer runs silent when the device fails
	player := audio.NewPlayer(audio.NewAudioConfig(cfg.AudioEnabled && !*mute, cfg.MasterVolume), log.Default())
	if err := player.Initialize(); err == nil {
		defer player.Cleanup()
	}
	d.Register(player)

	if *archive {
		st, err := store.Open(context.Background(), cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marble-lottery: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		d.Register(events.HandlerFunc(func(gs *engine.GameState, _ events.GameEvent) {
			if id, err := st.SaveRun(context.Background(), store.RunFromState(gs)); err != nil {
				log.Printf("archive run failed: %v", err)
			} else {
				log.Printf("archived run %d", id)
			}
		}, events.EventWinner))
	}

	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	loop(screen, newApp(d))
}

// loop renders at frameInterval and feeds wall-clock time to the driver until quit
func loop(screen tcell.Screen, a *app) {
	renderer := render.NewRenderer(screen)

	eventChan := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				fmt.Fprintf(os.Stderr, "\r\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\r\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
				os.Exit(1)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-frameTicker.C:
			a.tick(float64(now.Sub(last)) / float64(time.Millisecond))
			last = now
			renderer.Draw(a.state())
			drawMessage(screen, a)
			screen.Show()
		}
	}
}

// drawMessage right-aligns the transient message on the status row
func drawMessage(screen tcell.Screen, a *app) {
	msg := a.message
	if a.paused {
		msg = "paused " + msg
	}
	if msg == "" {
		return
	}
	w, h := screen.Size()
	style := tcell.StyleDefault.Foreground(render.RgbStatusForeground).Background(render.RgbBackground)
	x := w - len([]rune(msg)) - 1
	for _, ch := range msg {
		if x >= 0 && x < w {
			screen.SetContent(x, h-1, ch, nil, style)
		}
		x++
	}
}
