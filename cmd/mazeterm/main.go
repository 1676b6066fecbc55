// Command mazeterm plays the maze in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/beka-birhanu/torchmaze/config"
	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/game/maze"
	"github.com/gdamore/tcell/v2"
)

// command is what a key asks the game to do.
type command int

const (
	cmdNone command = iota
	cmdMove
	cmdRestart
	cmdQuit
)

var runeDirections = map[rune]maze.Direction{
	'k': maze.North,
	'j': maze.South,
	'l': maze.East,
	'h': maze.West,
}

var keyDirections = map[tcell.Key]maze.Direction{
	tcell.KeyUp:    maze.North,
	tcell.KeyDown:  maze.South,
	tcell.KeyRight: maze.East,
	tcell.KeyLeft:  maze.West,
}

// keyCommand translates a key press.
func keyCommand(ev *tcell.EventKey) (command, maze.Direction) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit, ""
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q':
			return cmdQuit, ""
		case 'r':
			return cmdRestart, ""
		default:
			if d, ok := runeDirections[r]; ok {
				return cmdMove, d
			}
		}
	default:
		if d, ok := keyDirections[ev.Key()]; ok {
			return cmdMove, d
		}
	}
	return cmdNone, ""
}

func main() {
	rulesFile := flag.String("rules", "", "YAML file overriding the game rules")
	seed := flag.Int64("seed", 0, "maze seed, 0 for random")
	flag.Parse()

	if err := run(*rulesFile, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "mazeterm: %v\n", err)
		os.Exit(1)
	}
}

func run(rulesFile string, seed int64) error {
	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = rules.Seed
	}

	g, err := game.New(game.Config{
		BaseSize:      rules.BaseSize,
		SizeIncrement: rules.SizeIncrement,
		TorchBase:     rules.TorchBase,
		TorchMax:      rules.TorchMax,
		IdleThreshold: rules.IdleThreshold,
		Seed:          seed,
	})
	if err != nil {
		return err
	}

	server := game.NewServer(g, game.ServerConfig{
		PursuitInterval: rules.PursuitInterval,
		IdleInterval:    rules.IdleInterval,
	})
	go server.Start()
	defer server.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	keys := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			keys <- ev
		}
	}()

	ctx := context.Background()
	redraw := func() error {
		snap, err := server.State(ctx)
		if err != nil {
			return err
		}
		draw(screen, snap)
		return nil
	}
	if err := redraw(); err != nil {
		return err
	}

	events := server.Events()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
		case ev := <-keys:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				cmd, d := keyCommand(ev)
				switch cmd {
				case cmdQuit:
					return nil
				case cmdRestart:
					if _, err := server.Restart(ctx); err != nil {
						return err
					}
				case cmdMove:
					if _, _, err := server.Move(ctx, d); err != nil {
						return err
					}
				}
			}
		}
		if err := redraw(); err != nil {
			return err
		}
	}
}
