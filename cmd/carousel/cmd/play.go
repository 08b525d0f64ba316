package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/carousel/cmd/carousel/internal/tui"
	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/dom"
	"github.com/go-drift/carousel/pkg/errors"
)

// imageLoadDelay is how long decks' unloaded images take to arrive.
const imageLoadDelay = 400 * time.Millisecond

// loadedImageHeight is the intrinsic height given to images once loaded.
const loadedImageHeight = 120

func init() {
	RegisterCommand(&Command{
		Name:  "play",
		Short: "Browse a deck interactively",
		Long: `Run the carousel in the terminal.

Keys:
  ←/→ h/l       previous / next slide
  1-9           jump to a slide
  home/end      first / last slide
  i             jump to the next slide without animating
  space         play / pause
  s             stop
  m             toggle hover (the mouse works too)
  q             quit

Flags:
  --config FILE   Deck file (default: ./carousel.yaml or the demo deck)
  --autoplay      Start playing regardless of the deck options
  --log FILE      Write engine warnings to FILE`,
		Usage: "carousel play [--config FILE] [--autoplay] [--log FILE]",
		Run:   runPlay,
	})
}

type playOptions struct {
	config   string
	autoplay bool
	log      string
}

func parsePlayArgs(args []string) (playOptions, error) {
	var opts playOptions
	for i := 0; i < len(args); i++ {
		if v, n, ok, err := flagValue(args, i, "--config"); ok {
			if err != nil {
				return opts, err
			}
			opts.config = v
			i += n
			continue
		}
		if v, n, ok, err := flagValue(args, i, "--log"); ok {
			if err != nil {
				return opts, err
			}
			opts.log = v
			i += n
			continue
		}
		switch args[i] {
		case "--autoplay":
			opts.autoplay = true
		default:
			return opts, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return opts, nil
}

func runPlay(args []string) error {
	opts, err := parsePlayArgs(args)
	if err != nil {
		return err
	}
	deck, err := loadDeck(opts.config)
	if err != nil {
		return err
	}

	// The terminal is owned by the UI; warnings only go to a file.
	var handler errors.Handler
	if opts.log != "" {
		logger, err := newLogger(verbose, opts.log)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		handler = errors.NewLogHandler(logger, verbose)
	}

	copts := deck.Options
	if opts.autoplay {
		copts.Autoplay = true
	}

	loop := animation.NewLoop(animation.SystemClock{})
	doc := dom.NewDocument(loop)
	model := tui.New(doc, deck.Build(), copts, tui.Options{Title: title(deck.Path), Handler: handler})
	defer model.Carousel().Cleanup()

	for _, src := range deck.Pending() {
		src := src
		loop.AfterFunc(imageLoadDelay, func() { doc.LoadImages(src, loadedImageHeight) })
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func title(path string) string {
	if path == "" {
		return "carousel · demo deck"
	}
	return "carousel · " + path
}
