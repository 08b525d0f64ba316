package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/carousel/cmd/carousel/internal/config"
	carouseltest "github.com/go-drift/carousel/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate a deck and print resolved options",
		Long: `Validate a deck file and print the options the engine will use.

The deck is also mounted on a headless document so markup problems are
reported the same way the engine reports them at runtime.

Flags:
  --config FILE   Deck file (default: ./carousel.yaml or the demo deck)`,
		Usage: "carousel check [--config FILE]",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	var path string
	for i := 0; i < len(args); i++ {
		v, n, ok, err := flagValue(args, i, "--config")
		if !ok {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		if err != nil {
			return err
		}
		path = v
		i += n
	}
	deck, err := loadDeck(path)
	if err != nil {
		return err
	}
	return checkDeck(os.Stdout, deck)
}

func checkDeck(w io.Writer, deck *config.Resolved) error {
	tester := carouseltest.NewTester()
	defer tester.Cleanup()
	c := tester.Mount(deck.Build(), deck.Options)
	if errs := tester.Errors().Errors(); len(errs) > 0 {
		return errs[0]
	}

	source := deck.Path
	if source == "" {
		source = "(demo deck)"
	}
	opts := deck.Options
	fmt.Fprintf(w, "Config:   %s\n", source)
	fmt.Fprintf(w, "Version:  %s\n", deck.Version)
	fmt.Fprintf(w, "Slides:   %d\n", len(c.Slides()))
	for i, s := range deck.Slides {
		name := s.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  %d  %-12s text=%d staggered=%d images=%d\n", i, name, len(s.Text), len(s.Staggered), len(s.Images))
	}
	bound := make([]string, 0, len(deck.Progress))
	for _, p := range deck.Progress {
		if p.For == "" {
			bound = append(bound, "all")
		} else {
			bound = append(bound, p.For)
		}
	}
	fmt.Fprintf(w, "Progress: %d", len(deck.Progress))
	if len(bound) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(bound, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintf(w, "  %-18s %d\n", "default_active", opts.DefaultActive)
	fmt.Fprintf(w, "  %-18s %t\n", "autoplay", opts.Autoplay)
	fmt.Fprintf(w, "  %-18s %t\n", "autoplay_progress", opts.AutoplayProgress)
	fmt.Fprintf(w, "  %-18s %s\n", "autoplay_speed", opts.AutoplaySpeed)
	fmt.Fprintf(w, "  %-18s %t\n", "pause_on_hover", opts.PauseOnHover)
	fmt.Fprintf(w, "  %-18s %t\n", "dynamic_height", opts.DynamicHeight)
	fmt.Fprintf(w, "  %-18s %s\n", "base_duration", opts.BaseDuration)
	fmt.Fprintf(w, "  %-18s %g\n", "translate_offset", opts.TranslateOffset)
	if opts.DynamicHeight {
		fmt.Fprintf(w, "  %-18s %g\n", "container_height", tester.Document().ContainerHeight())
	}
	return nil
}
