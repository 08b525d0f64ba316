package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-drift/carousel/cmd/carousel/internal/config"
	"github.com/go-drift/carousel/pkg/raster"
	carouseltest "github.com/go-drift/carousel/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render autoplay frames to PNG",
		Long: `Render the deck to a sequence of PNG frames.

Time is simulated, so the output is identical on every run. Autoplay is
forced on; each frame is one step of --fps.

Flags:
  --config FILE     Deck file (default: ./carousel.yaml or the demo deck)
  --out DIR         Output directory (default: frames)
  --fps N           Frames per second (default: 10)
  --duration D      Length of the recording (default: one cycle per slide)
  --size WxH        Frame size in pixels (default: 480x270)`,
		Usage: "carousel render [--config FILE] [--out DIR] [--fps N] [--duration D] [--size WxH]",
		Run:   runRender,
	})
}

type renderOptions struct {
	config   string
	out      string
	fps      int
	duration time.Duration
	width    int
	height   int
}

func parseRenderArgs(args []string) (renderOptions, error) {
	def := raster.DefaultOptions()
	opts := renderOptions{out: "frames", fps: 10, width: def.Width, height: def.Height}
	for i := 0; i < len(args); i++ {
		var handled bool
		for _, name := range []string{"--config", "--out", "--fps", "--duration", "--size"} {
			v, n, ok, err := flagValue(args, i, name)
			if !ok {
				continue
			}
			if err != nil {
				return opts, err
			}
			if err := opts.set(name, v); err != nil {
				return opts, err
			}
			i += n
			handled = true
			break
		}
		if !handled {
			return opts, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return opts, nil
}

func (o *renderOptions) set(name, v string) error {
	switch name {
	case "--config":
		o.config = v
	case "--out":
		o.out = v
	case "--fps":
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("--fps must be a positive integer, got %q", v)
		}
		o.fps = n
	case "--duration":
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("--duration must be a positive duration, got %q", v)
		}
		o.duration = d
	case "--size":
		var w, h int
		if _, err := fmt.Sscanf(v, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
			return fmt.Errorf("--size must look like 480x270, got %q", v)
		}
		o.width, o.height = w, h
	}
	return nil
}

func runRender(args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	deck, err := loadDeck(opts.config)
	if err != nil {
		return err
	}
	n, err := renderFrames(deck, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d frames to %s\n", n, opts.out)
	return nil
}

// renderFrames mounts the deck on a fake clock and writes one PNG per
// frame interval. It returns the number of frames written.
func renderFrames(deck *config.Resolved, opts renderOptions) (int, error) {
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", opts.out, err)
	}

	copts := deck.Options
	copts.Autoplay = true
	duration := opts.duration
	if duration <= 0 {
		duration = time.Duration(len(deck.Slides)) * copts.AutoplaySpeed
	}
	interval := time.Second / time.Duration(opts.fps)

	tester := carouseltest.NewTester()
	defer tester.Cleanup()
	tester.Mount(deck.Build(), copts)
	for _, src := range deck.Pending() {
		src := src
		tester.Loop().AfterFunc(imageLoadDelay, func() { tester.LoadImages(src, loadedImageHeight) })
	}

	ropts := raster.DefaultOptions()
	ropts.Width, ropts.Height = opts.width, opts.height
	r := raster.New(ropts)

	frames := int(duration/interval) + 1
	for i := 0; i < frames; i++ {
		if i > 0 {
			tester.PumpFor(interval)
		}
		path := filepath.Join(opts.out, fmt.Sprintf("frame_%04d.png", i))
		if err := r.WriteFile(path, tester.Document(), tester.Clock().Now()); err != nil {
			return i, err
		}
	}
	if errs := tester.Errors().Errors(); len(errs) > 0 {
		return frames, errs[0]
	}
	return frames, nil
}
