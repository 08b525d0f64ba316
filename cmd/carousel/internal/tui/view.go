package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
)

// Styles holds the lipgloss styles of the view.
type Styles struct {
	Title    lipgloss.Style
	Card     lipgloss.Style
	Hovered  lipgloss.Style
	Text     lipgloss.Style
	Faint    lipgloss.Style
	Bar      lipgloss.Style
	BarTrack lipgloss.Style
	Status   lipgloss.Style
	Problem  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Card:     card,
		Hovered:  card.BorderForeground(lipgloss.Color("212")),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		BarTrack: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Problem:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// cell levels, by opacity.
const (
	levelBlank = iota
	levelFaint
	levelFull
)

func level(opacity float64) int {
	switch {
	case opacity < 0.15:
		return levelBlank
	case opacity < 0.6:
		return levelFaint
	default:
		return levelFull
	}
}

type cell struct {
	r     rune
	level int
}

type grid struct {
	width int
	rows  [][]cell
}

func newGrid(width, lines int) *grid {
	g := &grid{width: width, rows: make([][]cell, lines)}
	for i := range g.rows {
		g.rows[i] = make([]cell, width)
		for j := range g.rows[i] {
			g.rows[i][j] = cell{r: ' '}
		}
	}
	return g
}

func (g *grid) write(row, col int, s string, lvl int) {
	if lvl == levelBlank || row < 0 || row >= len(g.rows) {
		return
	}
	for _, r := range s {
		if col >= 0 && col < g.width {
			g.rows[row][col] = cell{r: r, level: lvl}
		}
		col++
	}
}

func (g *grid) render(s Styles) string {
	lines := make([]string, len(g.rows))
	for i, row := range g.rows {
		var b strings.Builder
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].level == row[start].level {
				continue
			}
			run := make([]rune, 0, j-start)
			for _, c := range row[start:j] {
				run = append(run, c.r)
			}
			switch row[start].level {
			case levelFull:
				b.WriteString(s.Text.Render(string(run)))
			case levelFaint:
				b.WriteString(s.Faint.Render(string(run)))
			default:
				b.WriteString(string(run))
			}
			start = j
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	now := m.loop.Now()

	card := m.styles.Card
	if m.doc.Hovered() {
		card = m.styles.Hovered
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.opts.Title))
	b.WriteString("\n")
	b.WriteString(card.Render(m.track(now)))
	b.WriteString("\n")
	b.WriteString(m.progressBar())
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.status()))
	if m.problem != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Problem.Render(m.problem))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("←/→ move · space play/pause · s stop · 1-9 jump · i instant · m hover · q quit"))
	return b.String()
}

// track paints the visible slides and in-flight clones at their current
// offset and opacity.
func (m *Model) track(now time.Time) string {
	g := newGrid(m.width, m.lines)
	root := m.doc.Container()
	if root == nil {
		return g.render(m.styles)
	}
	for _, child := range root.Elements() {
		if _, ok := child.Attr(carousel.AttrSlide); !ok {
			continue
		}
		if !child.Clone() && !child.Active() {
			continue
		}
		tx, op := child.Computed(now)
		m.paintSlide(g, child, m.offset(tx), op, now)
	}
	return g.render(m.styles)
}

func (m *Model) paintSlide(g *grid, slide *dom.Element, dx int, op float64, now time.Time) {
	row := 0
	var walk func(e *dom.Element, dx int, op float64)
	walk = func(e *dom.Element, dx int, op float64) {
		for _, child := range e.Elements() {
			ctx, cop := child.Computed(now)
			cdx, cop := dx+m.offset(ctx), op*cop
			if child.Text != "" {
				g.write(row, cdx+1, child.Text, level(cop))
				row++
			} else if src, h, ok := child.Image(); ok {
				label := "[" + src + "]"
				if h == 0 {
					label = "[" + src + " …]"
				}
				g.write(row, cdx+1, label, level(cop))
				row++
			}
			walk(child, cdx, cop)
		}
	}
	walk(slide, dx, op)
}

// offset converts a translation in percent of the track to cells.
func (m *Model) offset(percent float64) int {
	return int(math.Round(percent / 100 * float64(m.width)))
}

// progressBar draws the first visible indicator, or an empty track.
func (m *Model) progressBar() string {
	var style carousel.IndicatorStyle
	if root := m.doc.Container(); root != nil {
		root.Walk(func(e *dom.Element) bool {
			if e.Clone() {
				return false
			}
			if s, ok := e.Indicator(); ok && s.Opacity > 0 && style.Opacity == 0 {
				style = s
			}
			return true
		})
	}
	width := m.width + 2
	if style.Opacity == 0 {
		return m.styles.BarTrack.Render(strings.Repeat(" ", width))
	}
	filled := int(math.Round(math.Min(math.Max(style.Progress, 0), 1) * float64(width)))
	return m.styles.Bar.Render(strings.Repeat("━", filled)) +
		m.styles.BarTrack.Render(strings.Repeat("─", width-filled))
}

func (m *Model) status() string {
	c := m.carousel
	slides := len(c.Slides())
	s := fmt.Sprintf("%s  %d/%d", playGlyph(c.PlayState()), c.ActiveIndex()+1, slides)
	if name := c.ActiveName(); name != "" {
		s += " " + name
	}
	if c.PausedByHover() {
		s += "  (hover)"
	}
	if n := c.Transitioning(); n > 0 {
		s += fmt.Sprintf("  moving×%d", n)
	}
	if m.event != "" {
		s += "  · " + m.event
	}
	return s
}

func playGlyph(s carousel.PlayState) string {
	switch s {
	case carousel.Playing:
		return "▶ playing"
	case carousel.Paused:
		return "❚❚ paused"
	default:
		return "■ stopped"
	}
}
