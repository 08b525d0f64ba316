// Package testing provides a deterministic test harness for carousels.
//
// # Quick Start
//
// Create a tester, mount a container, and drive time explicitly:
//
//	func TestAdvance(t *testing.T) {
//	    tester := carouseltest.NewTesterWithT(t)
//	    c := tester.Mount(dom.Container(
//	        dom.Slide("a"), dom.Slide("b"),
//	    ), carousel.DefaultOptions())
//
//	    c.Next()
//	    tester.PumpFor(time.Second)
//
//	    if got := c.ActiveIndex(); got != 1 {
//	        t.Errorf("ActiveIndex() = %d, want 1", got)
//	    }
//	}
//
// # Time
//
// The tester owns a [FakeClock]. [Tester.Pump] runs one loop step without
// moving time; [Tester.PumpFor] advances the clock frame by frame, stepping
// the loop after each frame, so timers and tickers fire in order.
//
// # Finding Elements
//
// Finders locate elements in the mounted document:
//
//	clones := tester.Find(carouseltest.ByClone())
//	active := tester.Find(carouseltest.ActiveSlide()).First()
//
// # Errors
//
// Carousels mounted through the tester report to an [ErrorRecorder]
// instead of the log, so tests can assert on abandoned operations.
//
// # Snapshot Testing
//
// Capture and compare document snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/mid_transition.snapshot.json")
//
// Update snapshots with:
//
//	CAROUSEL_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import carouseltest "github.com/go-drift/carousel/pkg/testing"
package testing
