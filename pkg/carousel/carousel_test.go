package carousel_test

import (
	"testing"
	"time"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
	"github.com/go-drift/carousel/pkg/errors"
	carouseltest "github.com/go-drift/carousel/pkg/testing"
)

func slides(names ...string) *dom.Element {
	root := dom.Container()
	for _, name := range names {
		root.Append(dom.Slide(name, dom.Text(name)))
	}
	return root
}

type changeRecorder struct {
	changes []int
	states  []carousel.PlayState
}

func (r *changeRecorder) options(opts carousel.Options) carousel.Options {
	opts.OnActiveChange = func(index int, name string) { r.changes = append(r.changes, index) }
	opts.OnPlayStateChange = func(s carousel.PlayState) { r.states = append(r.states, s) }
	return opts
}

func TestMountActivatesDefaultSlideInstantly(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	rec := &changeRecorder{}
	opts := carousel.DefaultOptions()
	opts.DefaultActive = 2
	c := tester.Mount(slides("a", "b", "c", "d"), rec.options(opts))

	if got := c.ActiveIndex(); got != 2 {
		t.Errorf("ActiveIndex() = %d, want 2", got)
	}
	if got := tester.Find(carouseltest.ByClone()).Count(); got != 0 {
		t.Errorf("clones after mount = %d, want 0", got)
	}
	if c.Transitioning() != 0 {
		t.Errorf("Transitioning() = %d, want 0", c.Transitioning())
	}
	if len(rec.changes) != 0 {
		t.Errorf("OnActiveChange fired %v on instant activation", rec.changes)
	}
	active := tester.Find(carouseltest.ActiveSlide())
	if active.Count() != 1 {
		t.Fatalf("active slides = %d, want 1", active.Count())
	}
	if v, _ := active.First().Attr(carousel.AttrSlide); v != "c" {
		t.Errorf("active slide = %q, want %q", v, "c")
	}
}

func TestMountInvalidDefaultFallsBack(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	opts := carousel.DefaultOptions()
	opts.DefaultActive = 7
	c := tester.Mount(slides("a", "b"), opts)

	if c.ActiveIndex() != 0 {
		t.Errorf("ActiveIndex() = %d, want 0", c.ActiveIndex())
	}
	if !tester.Errors().Has(errors.KindNavigation, errors.ErrOutOfRange) {
		t.Error("expected invalid DefaultActive to be reported")
	}
}

func TestMountWithoutContainer(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	rec := &carouseltest.ErrorRecorder{}
	opts := carousel.DefaultOptions()
	opts.Handler = rec
	c := carousel.New(tester.Document(), tester.Loop(), opts)

	if !rec.Has(errors.KindMount, errors.ErrNoContainer) {
		t.Fatalf("expected ErrNoContainer, got %v", rec.Errors())
	}
	rec.Reset()
	done := c.Next()
	if !done.Resolved() {
		t.Error("Next on an unmounted carousel should resolve immediately")
	}
	if !rec.Has(errors.KindMount, errors.ErrNoContainer) {
		t.Error("expected Next to be reported as a no-op")
	}
}

func TestNextAnimatesAndFinalizes(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	rec := &changeRecorder{}
	c := tester.Mount(slides("a", "b", "c"), rec.options(carousel.DefaultOptions()))

	done := c.Next()

	if c.ActiveIndex() != 1 {
		t.Errorf("ActiveIndex() = %d, want 1 immediately after Next", c.ActiveIndex())
	}
	if len(rec.changes) != 1 || rec.changes[0] != 1 {
		t.Errorf("OnActiveChange calls = %v, want [1]", rec.changes)
	}
	if c.ActiveName() != "b" {
		t.Errorf("ActiveName() = %q, want %q", c.ActiveName(), "b")
	}
	if got := tester.Find(carouseltest.ByClone()).Count(); got != 2 {
		t.Fatalf("clones = %d, want 2", got)
	}
	if tester.Find(carouseltest.ActiveSlide()).Exists() {
		t.Error("no original should be marked active mid-transition")
	}

	tester.PumpFor(999 * time.Millisecond)
	if done.Resolved() {
		t.Fatal("move resolved before the transition duration")
	}
	tester.PumpFor(time.Millisecond)
	if !done.Resolved() {
		t.Fatal("move did not resolve after the transition duration")
	}
	if got := tester.Find(carouseltest.ByClone()).Count(); got != 0 {
		t.Errorf("clones after completion = %d, want 0", got)
	}
	if c.Transitioning() != 0 {
		t.Errorf("Transitioning() = %d, want 0", c.Transitioning())
	}
	active := tester.Find(carouseltest.ActiveSlide())
	if active.Count() != 1 || active.First() != tester.Find(carouseltest.BySlide("b")).First() {
		t.Error("slide b should be the only active slide")
	}
}

func TestTransitionDirections(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		target    carousel.Target
		wantStart float64
	}{
		{"next", 1, carousel.Next(), 100},
		{"previous", 1, carousel.Previous(), -100},
		{"explicit forward", 0, carousel.Index(2), 100},
		{"explicit backward", 2, carousel.Index(0), -100},
		{"explicit wrap forward", 3, carousel.Index(0), 100},
		{"explicit wrap backward", 0, carousel.Index(3), -100},
		{"named", 0, carousel.Named("c"), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := carouseltest.NewTesterWithT(t)
			opts := carousel.DefaultOptions()
			opts.DefaultActive = tt.start
			c := tester.Mount(slides("a", "b", "c", "d"), opts)

			c.Move(tt.target)

			clones := tester.Document().Clones()
			if len(clones) != 2 {
				t.Fatalf("clones = %d, want 2", len(clones))
			}
			out, in := clones[0], clones[1]
			now := tester.Loop().Now()
			if x, op := in.Computed(now); x != tt.wantStart || op != 0 {
				t.Errorf("incoming starts at (%v, %v), want (%v, 0)", x, op, tt.wantStart)
			}
			if got := out.Style().TranslateX; got != -tt.wantStart {
				t.Errorf("outgoing ends at %v, want %v", got, -tt.wantStart)
			}
			if got := in.Style().Easing.CSS; got != "ease-in-out" {
				t.Errorf("easing = %q, want ease-in-out", got)
			}
		})
	}
}

func TestInvalidTargetsLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		target carousel.Target
		want   error
	}{
		{"index too large", carousel.Index(4), errors.ErrOutOfRange},
		{"negative index", carousel.Index(-2), errors.ErrOutOfRange},
		{"unknown name", carousel.Named("zzz"), errors.ErrUnknownName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := carouseltest.NewTesterWithT(t)
			rec := &changeRecorder{}
			c := tester.Mount(slides("a", "b", "c"), rec.options(carousel.DefaultOptions()))

			done := c.Move(tt.target)

			if !done.Resolved() {
				t.Error("invalid move should resolve immediately")
			}
			if c.ActiveIndex() != 0 || c.Transitioning() != 0 || len(rec.changes) != 0 {
				t.Error("invalid move changed state")
			}
			if tester.Find(carouseltest.ByClone()).Exists() {
				t.Error("invalid move created clones")
			}
			if !tester.Errors().Has(errors.KindNavigation, tt.want) {
				t.Errorf("expected %v to be reported, got %v", tt.want, tester.Errors().Errors())
			}
		})
	}
}

func TestSingleSlideRoundTrip(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	rec := &changeRecorder{}
	c := tester.Mount(slides("only"), rec.options(carousel.DefaultOptions()))

	c.Move(carousel.Next())
	c.Previous()

	if c.ActiveIndex() != 0 {
		t.Errorf("ActiveIndex() = %d, want 0", c.ActiveIndex())
	}
	if c.Transitioning() != 0 || tester.Find(carouseltest.ByClone()).Exists() {
		t.Error("single slide carousel started a transition")
	}
	if len(rec.changes) != 0 {
		t.Errorf("OnActiveChange fired %v", rec.changes)
	}
	if !c.IsFirst() || !c.IsLast() {
		t.Error("single slide should be both first and last")
	}
}

// spyRenderer counts SetActive calls per node.
type spyRenderer struct {
	*dom.Document
	calls map[carousel.Node][]bool
}

func (s *spyRenderer) SetActive(n carousel.Node, active bool) {
	s.calls[n] = append(s.calls[n], active)
	s.Document.SetActive(n, active)
}

func mountSpy(t *testing.T, tester *carouseltest.Tester, root *dom.Element, opts carousel.Options) (*carousel.Carousel, *spyRenderer) {
	t.Helper()
	tester.Document().Mount(root)
	spy := &spyRenderer{Document: tester.Document(), calls: make(map[carousel.Node][]bool)}
	opts.Handler = tester.Errors()
	c := carousel.New(spy, tester.Loop(), opts)
	t.Cleanup(c.Cleanup)
	for k := range spy.calls {
		delete(spy.calls, k)
	}
	return c, spy
}

func TestOverlappingMovesFinalizeOnce(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	root := slides("a", "b", "c", "d")
	opts := carousel.DefaultOptions()
	opts.DefaultActive = 1
	c, spy := mountSpy(t, tester, root, opts)
	slide2 := tester.Find(carouseltest.BySlide("c")).First()
	slide3 := tester.Find(carouseltest.BySlide("d")).First()

	first := c.Move(carousel.Index(2))
	tester.PumpFor(300 * time.Millisecond)
	second := c.Move(carousel.Index(3))

	// Slide 2 is still arriving, so no second "out" clone is launched.
	if got := len(tester.Document().Clones()); got != 3 {
		t.Errorf("clones = %d, want 3", got)
	}
	if c.Transitioning() != 2 {
		t.Errorf("Transitioning() = %d, want 2", c.Transitioning())
	}

	tester.PumpFor(time.Second)

	if !first.Resolved() || !second.Resolved() {
		t.Fatal("moves did not resolve")
	}
	if got := spy.calls[slide2]; len(got) != 1 || got[0] {
		t.Errorf("SetActive calls for slide 2 = %v, want [false]", got)
	}
	if got := spy.calls[slide3]; len(got) != 1 || !got[0] {
		t.Errorf("SetActive calls for slide 3 = %v, want [true]", got)
	}
	if c.ActiveIndex() != 3 || c.Transitioning() != 0 {
		t.Errorf("state = (%d, %d), want (3, 0)", c.ActiveIndex(), c.Transitioning())
	}
	if tester.Find(carouseltest.ActiveSlide()).Count() != 1 {
		t.Error("expected exactly one active slide")
	}
}

func TestReturningSlideHoldsReference(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	c, spy := mountSpy(t, tester, slides("a", "b", "c"), carousel.DefaultOptions())
	slide0 := tester.Find(carouseltest.BySlide("a")).First()

	c.Next()
	tester.PumpFor(100 * time.Millisecond)
	c.Previous()

	// Slide 0 now has an outgoing and an incoming clone.
	tester.PumpFor(900 * time.Millisecond)
	if got := spy.calls[slide0]; len(got) != 1 || got[0] {
		t.Errorf("slide 0 marked before its last transition ended: %v", got)
	}
	tester.PumpFor(100 * time.Millisecond)
	if got := spy.calls[slide0]; len(got) != 2 || !got[1] {
		t.Errorf("SetActive calls for slide 0 = %v, want [false true]", got)
	}
	if !slide0.Active() {
		t.Error("slide 0 should end active")
	}
}

func TestStaggeredTransition(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	root := dom.Container(
		dom.Slide("a", dom.Text("plain")),
		dom.Slide("b",
			dom.Staggered(1, dom.Text("title")),
			dom.Staggered(2, dom.Text("body")),
		),
	)
	c := tester.Mount(root, carousel.DefaultOptions())

	done := c.Next()

	in := tester.Document().Clones()[1]
	children := in.Elements()
	if x, op := in.Computed(tester.Loop().Now()); x != 0 || op != 1 {
		t.Errorf("staggered clone itself = (%v, %v), want at rest", x, op)
	}
	wantDelay := []time.Duration{500 * time.Millisecond, time.Second}
	wantDuration := []time.Duration{1200 * time.Millisecond, 1400 * time.Millisecond}
	for i, child := range children {
		s := child.Style()
		if s.Delay != wantDelay[i] || s.Duration != wantDuration[i] {
			t.Errorf("child %d timing = (%v, %v), want (%v, %v)", i, s.Delay, s.Duration, wantDelay[i], wantDuration[i])
		}
		if s.Easing.CSS != "linear, cubic-bezier(0.19, 1, 0.22, 1)" {
			t.Errorf("child %d easing = %q", i, s.Easing.CSS)
		}
	}

	tester.PumpFor(2399 * time.Millisecond)
	if done.Resolved() {
		t.Fatal("resolved before the highest order finished")
	}
	if len(tester.Document().Clones()) != 1 {
		t.Errorf("clones = %d, want only the staggered one", len(tester.Document().Clones()))
	}
	tester.PumpFor(time.Millisecond)
	if !done.Resolved() {
		t.Fatal("not resolved once the highest order finished")
	}
	if len(tester.Document().Clones()) != 0 {
		t.Error("staggered clone not removed")
	}
}

func TestCustomStaggerTiming(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	root := dom.Container(
		dom.Slide("a"),
		dom.Slide("b", dom.Staggered(3, dom.Text("x"))),
	)
	opts := carousel.DefaultOptions()
	opts.TransitionDelay = func(order int, base time.Duration) time.Duration { return 0 }
	opts.TransitionDuration = func(order int, base time.Duration) time.Duration { return 200 * time.Millisecond }
	c := tester.Mount(root, opts)

	done := c.Next()
	tester.PumpFor(time.Second)

	if !done.Resolved() {
		t.Error("custom timing not honoured")
	}
}

func TestTransitionWaitsForImages(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	root := dom.Container(
		dom.Slide("a"),
		dom.Slide("b", dom.Img("b.png", 0)),
	)
	c := tester.Mount(root, carousel.DefaultOptions())

	done := c.Next()
	in := tester.Document().Clones()[1]
	if in.Style().Duration != 0 {
		t.Fatal("incoming clone animated before its image loaded")
	}

	tester.PumpFor(100 * time.Millisecond)
	tester.LoadImages("b.png", 320)
	tester.PumpFor(16 * time.Millisecond)
	if in.Style().Duration != time.Second {
		t.Fatalf("incoming clone duration = %v, want 1s once loaded", in.Style().Duration)
	}

	tester.PumpFor(884 * time.Millisecond)
	if done.Resolved() {
		t.Error("move resolved before the delayed transition ended")
	}
	tester.PumpFor(200 * time.Millisecond)
	if !done.Resolved() {
		t.Error("move never resolved")
	}
}

func TestVanishedCloneIsBestEffort(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	root := dom.Container(
		dom.Slide("a"),
		dom.Slide("b", dom.Img("never.png", 0)),
	)
	c := tester.Mount(root, carousel.DefaultOptions())

	done := c.Next()
	tester.Document().Clones()[1].Detach()

	if err := tester.PumpUntil(done.Resolved, 3*time.Second); err != nil {
		t.Fatalf("move never resolved: %v", err)
	}
	if !tester.Errors().Has(errors.KindAnimation, errors.ErrNodeGone) {
		t.Error("expected the vanished clone to be reported")
	}
	if c.ActiveIndex() != 1 || c.Transitioning() != 0 {
		t.Errorf("state = (%d, %d), want (1, 0)", c.ActiveIndex(), c.Transitioning())
	}
}

func TestMoveInstant(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	rec := &changeRecorder{}
	c := tester.Mount(slides("a", "b", "c"), rec.options(carousel.DefaultOptions()))

	c.MoveInstant(carousel.Named("c"))

	if c.ActiveIndex() != 2 || !c.IsLast() || c.IsFirst() {
		t.Errorf("ActiveIndex() = %d, want 2", c.ActiveIndex())
	}
	if tester.Find(carouseltest.ByClone()).Exists() {
		t.Error("instant move created clones")
	}
	if len(rec.changes) != 0 {
		t.Errorf("OnActiveChange fired %v on instant move", rec.changes)
	}
	if !tester.Find(carouseltest.BySlide("c")).First().Active() {
		t.Error("slide c not marked active")
	}
}

func TestOnActiveChangePanicIsContained(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	opts := carousel.DefaultOptions()
	opts.OnActiveChange = func(int, string) { panic("boom") }
	c := tester.Mount(slides("a", "b"), opts)

	done := c.Next()
	tester.PumpFor(time.Second)

	if len(tester.Errors().Panics()) != 1 {
		t.Errorf("panics = %d, want 1", len(tester.Errors().Panics()))
	}
	if !done.Resolved() || c.ActiveIndex() != 1 {
		t.Error("panicking callback disrupted the move")
	}
}

func TestCleanup(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	opts := carousel.DefaultOptions()
	opts.Autoplay = true
	c := tester.Mount(slides("a", "b", "c"), opts)

	done := c.Next()
	c.Cleanup()

	if !done.Resolved() {
		t.Error("cleanup left the move unresolved")
	}
	if tester.Find(carouseltest.ByClone()).Exists() {
		t.Error("cleanup left clones in the document")
	}
	if c.Transitioning() != 0 {
		t.Errorf("Transitioning() = %d, want 0", c.Transitioning())
	}
	active := tester.Find(carouseltest.ActiveSlide())
	if active.Count() != 1 {
		t.Fatalf("active slides after cleanup = %d, want 1", active.Count())
	}
	if v, _ := active.First().Attr(carousel.AttrSlide); v != "b" {
		t.Errorf("active slide after cleanup = %q, want %q", v, "b")
	}

	tester.Hover()
	tester.PumpFor(10 * time.Second)
	if c.ActiveIndex() != 1 {
		t.Errorf("carousel kept running after cleanup: active %d", c.ActiveIndex())
	}

	c.Next()
	if !tester.Errors().Has(errors.KindMount, errors.ErrCleanedUp) {
		t.Error("expected calls after cleanup to be reported")
	}
	c.Cleanup()
}

func TestCarouselsAreIndependent(t *testing.T) {
	a := carouseltest.NewTesterWithT(t)
	b := carouseltest.NewTesterWithT(t)
	ca := a.Mount(slides("a", "b"), carousel.DefaultOptions())
	cb := b.Mount(slides("x", "y", "z"), carousel.DefaultOptions())

	ca.Next()
	a.PumpFor(time.Second)

	if cb.ActiveIndex() != 0 || cb.Transitioning() != 0 {
		t.Error("moving one carousel affected another")
	}
	if ca.ID() == cb.ID() {
		t.Error("carousels share an ID")
	}
}

func TestDynamicHeight(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	tall := dom.Slide("b").WithHeight(250)
	root := dom.Container(
		dom.Slide("a").WithHeight(100),
		tall,
		dom.Slide("c").WithHeight(180),
	)
	opts := carousel.DefaultOptions()
	opts.DynamicHeight = true
	c := tester.Mount(root, opts)

	if got := tester.Document().ContainerHeight(); got != 250 {
		t.Fatalf("ContainerHeight() = %v, want 250", got)
	}

	tester.PumpFor(100 * time.Millisecond)
	tall.WithHeight(400)
	c.Resize()
	if got := tester.Document().ContainerHeight(); got != 250 {
		t.Errorf("resize inside the debounce window applied eagerly: %v", got)
	}
	tester.PumpFor(499 * time.Millisecond)
	if got := tester.Document().ContainerHeight(); got != 250 {
		t.Errorf("resize applied before the debounce elapsed: %v", got)
	}
	tester.PumpFor(time.Millisecond)
	if got := tester.Document().ContainerHeight(); got != 400 {
		t.Errorf("ContainerHeight() = %v, want 400 after debounce", got)
	}

	tester.PumpFor(time.Second)
	tall.WithHeight(300)
	c.Resize()
	if got := tester.Document().ContainerHeight(); got != 400 {
		t.Errorf("resize after a quiet period applied eagerly: %v", got)
	}
	tester.PumpFor(carousel.ResizeDebounce)
	if got := tester.Document().ContainerHeight(); got != 300 {
		t.Errorf("ContainerHeight() = %v, want 300 after debounce", got)
	}
}

func TestFixedHeightIgnoresResize(t *testing.T) {
	tester := carouseltest.NewTesterWithT(t)
	c := tester.Mount(dom.Container(dom.Slide("a").WithHeight(100)), carousel.DefaultOptions())
	c.Resize()
	if got := tester.Document().ContainerHeight(); got != 0 {
		t.Errorf("ContainerHeight() = %v, want untouched", got)
	}
}
