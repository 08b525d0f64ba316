package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
	"github.com/go-drift/carousel/pkg/errors"
)

const sample = `version: v1.2
options:
  default_active: 1
  autoplay: true
  autoplay_speed: 3s
  pause_on_hover: false
  base_duration: 600ms
  translate_offset: 50
slides:
  - name: intro
    text: [Hello]
    staggered: [one, two]
  - name: photo
    images:
      - src: hero.png
        height: 120
      - src: lazy.png
  - height: 80
progress:
  - for: intro
  - {}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestResolveMissingFileUsesDefault(t *testing.T) {
	res, err := Resolve(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, res.Path)
	assert.Equal(t, SchemaVersion, res.Version)
	assert.Equal(t, carousel.DefaultOptions().AutoplaySpeed, res.Options.AutoplaySpeed)
	assert.Len(t, res.Slides, 3)
	assert.Len(t, res.Progress, 1)
}

func TestResolveFile(t *testing.T) {
	dir := writeConfig(t, sample)

	res, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), res.Path)
	assert.Equal(t, "v1.2.0", res.Version)

	opts := res.Options
	assert.Equal(t, 1, opts.DefaultActive)
	assert.True(t, opts.Autoplay)
	assert.True(t, opts.AutoplayProgress, "unset fields keep defaults")
	assert.False(t, opts.PauseOnHover)
	assert.Equal(t, 3*time.Second, opts.AutoplaySpeed)
	assert.Equal(t, 600*time.Millisecond, opts.BaseDuration)
	assert.Equal(t, 50.0, opts.TranslateOffset)

	assert.Equal(t, []string{"lazy.png"}, res.Pending())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"bad yaml", "slides: [", nil},
		{"major version", "version: v2.0.0\nslides: [{name: a}]", nil},
		{"invalid version", "version: banana\nslides: [{name: a}]", nil},
		{"no slides", "version: v1\n", errors.ErrNoSlides},
		{"duplicate name", "slides: [{name: a}, {name: a}]", nil},
		{"reserved name", "slides: [{name: \"true\"}]", nil},
		{"unknown progress", "slides: [{name: a}]\nprogress: [{for: b}]", errors.ErrUnknownName},
		{"default out of range", "options: {default_active: 3}\nslides: [{name: a}]", errors.ErrOutOfRange},
		{"bad duration", "options: {autoplay_speed: soon}\nslides: [{name: a}]", nil},
		{"zero speed", "options: {autoplay_speed: 0s}\nslides: [{name: a}]", nil},
		{"image without src", "slides: [{images: [{height: 3}]}]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.body))
			require.Error(t, err)

			var ce *errors.CarouselError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, errors.KindConfig, ce.Kind)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestZeroBaseDurationAllowed(t *testing.T) {
	cfg, err := Parse([]byte("options: {base_duration: 0s}\nslides: [{name: a}]"))
	require.NoError(t, err)

	res, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Zero(t, res.Options.BaseDuration)
}

func TestResolveFileMissing(t *testing.T) {
	_, err := ResolveFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild(t *testing.T) {
	res, err := ResolveFile(filepath.Join(writeConfig(t, sample), FileName))
	require.NoError(t, err)

	root := res.Build()
	children := root.Elements()
	require.Len(t, children, 5)

	intro := children[0]
	name, ok := intro.Attr(carousel.AttrSlide)
	require.True(t, ok)
	assert.Equal(t, "intro", name)

	var staggered []string
	intro.Walk(func(e *dom.Element) bool {
		if v, ok := e.Attr(carousel.AttrStaggered); ok {
			staggered = append(staggered, v)
		}
		return true
	})
	assert.Equal(t, []string{"1", "2"}, staggered)

	unnamed, _ := children[2].Attr(carousel.AttrSlide)
	assert.Equal(t, "true", unnamed)
	assert.Equal(t, 80.0, children[2].Height())

	first, _ := children[3].Attr(carousel.AttrProgress)
	all, _ := children[4].Attr(carousel.AttrProgress)
	assert.Equal(t, "intro", first)
	assert.Equal(t, "true", all)

	assert.NotSame(t, root, res.Build(), "each build is a fresh tree")
}
