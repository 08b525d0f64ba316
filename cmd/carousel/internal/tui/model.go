// Package tui is the interactive terminal front-end of the carousel CLI.
//
// The bubbletea update goroutine owns the carousel: every frame tick steps
// the animation loop from Update, so engine callbacks never race with key
// or mouse handling.
package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
	"github.com/go-drift/carousel/pkg/errors"
)

// Options configures the terminal view.
type Options struct {
	// Title is shown above the track.
	Title string
	// Width is the track width in cells. Zero uses DefaultWidth until the
	// first window size message.
	Width int
	// Frame is the tick period. Zero uses animation.FrameInterval.
	Frame time.Duration
	// Handler also receives engine errors after they are shown in the
	// status line. May be nil.
	Handler errors.Handler
}

// DefaultWidth is the track width used before the terminal size is known.
const DefaultWidth = 48

const (
	minWidth = 16
	minLines = 3
	// headerRows is the number of rows above the card border.
	headerRows = 1
)

type tickMsg time.Time

// Model is a tea.Model driving a carousel mounted in a headless document.
type Model struct {
	doc      *dom.Document
	loop     *animation.Loop
	carousel *carousel.Carousel
	opts     Options
	styles   Styles

	width int
	lines int

	event    string
	problem  string
	quitting bool
}

var (
	_ tea.Model      = (*Model)(nil)
	_ errors.Handler = (*Model)(nil)
)

// New mounts root in doc and creates the carousel. Callbacks in copts are
// kept and chained after the model's own bookkeeping.
func New(doc *dom.Document, root *dom.Element, copts carousel.Options, opts Options) *Model {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Frame <= 0 {
		opts.Frame = animation.FrameInterval
	}
	if opts.Title == "" {
		opts.Title = "carousel"
	}
	m := &Model{
		doc:    doc,
		loop:   doc.Loop(),
		opts:   opts,
		styles: DefaultStyles(),
		width:  opts.Width,
		lines:  deckLines(root),
	}

	onActive := copts.OnActiveChange
	copts.OnActiveChange = func(index int, name string) {
		m.event = fmt.Sprintf("slide %d %s", index+1, name)
		if onActive != nil {
			onActive(index, name)
		}
	}
	onPlay := copts.OnPlayStateChange
	copts.OnPlayStateChange = func(state carousel.PlayState) {
		m.event = state.String()
		if onPlay != nil {
			onPlay(state)
		}
	}
	copts.Handler = m

	doc.Mount(root)
	m.carousel = carousel.New(doc, m.loop, copts)
	return m
}

// Carousel returns the driven carousel.
func (m *Model) Carousel() *carousel.Carousel { return m.carousel }

// Event returns the last notification shown in the status line.
func (m *Model) Event() string { return m.event }

// Problem returns the last reported error, or "".
func (m *Model) Problem() string { return m.problem }

// HandleError implements errors.Handler.
func (m *Model) HandleError(err *errors.CarouselError) {
	m.problem = err.Error()
	if m.opts.Handler != nil {
		m.opts.Handler.HandleError(err)
	}
}

// HandlePanic implements errors.Handler.
func (m *Model) HandlePanic(err *errors.PanicError) {
	m.problem = err.Error()
	if m.opts.Handler != nil {
		m.opts.Handler.HandlePanic(err)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.loop.Step()
		return m, m.tick()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		// Leave room for the card border.
		m.width = max(minWidth, msg.Width-2)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	c := m.carousel
	switch key := msg.String(); key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		c.Cleanup()
		return tea.Quit
	case "right", "l", "n":
		c.Next()
	case "left", "h", "p":
		c.Previous()
	case "home":
		c.Move(carousel.Index(0))
	case "end":
		c.Move(carousel.Index(len(c.Slides()) - 1))
	case "i":
		c.MoveInstant(carousel.Next())
	case " ":
		if c.PlayState() == carousel.Playing {
			c.Pause()
		} else {
			c.Play()
		}
	case "s":
		c.Stop()
	case "m":
		if m.doc.Hovered() {
			m.doc.PointerLeave()
		} else {
			m.doc.PointerEnter()
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			c.Move(carousel.Index(n - 1))
		}
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.overCard(msg.X, msg.Y) {
		m.doc.PointerEnter()
	} else {
		m.doc.PointerLeave()
	}
}

// overCard reports whether the cell at x, y is inside the bordered track.
func (m *Model) overCard(x, y int) bool {
	top := headerRows
	bottom := top + m.lines + 2
	return y >= top && y < bottom && x >= 0 && x < m.width+2
}

// deckLines returns the number of track rows needed by the tallest slide.
func deckLines(root *dom.Element) int {
	lines := minLines
	if root == nil {
		return lines
	}
	for _, slide := range root.Elements() {
		if _, ok := slide.Attr(carousel.AttrSlide); !ok {
			continue
		}
		n := 0
		slide.Walk(func(e *dom.Element) bool {
			if e.Text != "" {
				n++
			} else if _, _, ok := e.Image(); ok {
				n++
			}
			return true
		})
		lines = max(lines, n)
	}
	return lines
}
