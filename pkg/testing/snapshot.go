package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-drift/carousel/pkg/dom"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the document tree and the computed style of every
// element at one instant.
type Snapshot struct {
	Elapsed string        `json:"elapsed"`
	Height  float64       `json:"containerHeight,omitempty"`
	Tree    *SnapshotNode `json:"tree"`
}

// SnapshotNode represents an element in the serialized tree.
type SnapshotNode struct {
	ID         string            `json:"id"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	Text       string            `json:"text,omitempty"`
	Active     bool              `json:"active,omitempty"`
	TranslateX float64           `json:"translateX"`
	Opacity    float64           `json:"opacity"`
	Progress   *IndicatorNode    `json:"progress,omitempty"`
	Children   []*SnapshotNode   `json:"children,omitempty"`
}

// IndicatorNode is the serialized state of a progress indicator.
type IndicatorNode struct {
	Opacity  float64 `json:"opacity"`
	Progress float64 `json:"progress"`
	Running  bool    `json:"running"`
}

// CaptureSnapshot captures the mounted document at the current fake time.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{
		Elapsed: t.clock.Elapsed().Round(time.Millisecond).String(),
		Height:  round2(t.doc.ContainerHeight()),
	}
	if root := t.doc.Container(); root != nil {
		snap.Tree = captureNode(root, t.clock.Now(), &tagCounter{})
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// CAROUSEL_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("CAROUSEL_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: CAROUSEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: CAROUSEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

// tagCounter assigns stable IDs like "div#0", "div#1".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureNode(e *dom.Element, now time.Time, counter *tagCounter) *SnapshotNode {
	tx, op := e.Computed(now)
	node := &SnapshotNode{
		ID:         counter.next(e.Tag),
		Text:       e.Text,
		Active:     e.Active(),
		TranslateX: round2(tx),
		Opacity:    round2(op),
	}
	if names := e.Attrs(); len(names) > 0 {
		node.Attrs = make(map[string]string, len(names))
		for _, name := range names {
			node.Attrs[name], _ = e.Attr(name)
		}
	}
	if s, ok := e.Indicator(); ok {
		node.Progress = &IndicatorNode{
			Opacity:  round2(s.Opacity),
			Progress: round2(s.Progress),
			Running:  s.Running,
		}
	}
	for _, child := range e.Elements() {
		node.Children = append(node.Children, captureNode(child, now, counter))
	}
	return node
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// Normalize negative zero.
		return 0
	}
	return r
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := len(expectedLines)
	if len(actualLines) > maxLen {
		maxLen = len(actualLines)
	}

	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
