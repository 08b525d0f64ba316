// Package carousel implements the fluid carousel engine: a state machine
// that tracks the active slide of a container, animates hand-offs between
// slides with transient clones, and autoplays on a timer with a progress
// indicator.
//
// # Markup
//
// The engine reads its structure from a [Renderer]'s node tree:
//
//   - direct children of the container carrying [AttrSlide] are slides
//     (the attribute value is the slide name, "true" for unnamed slides)
//   - any descendant carrying [AttrProgress] is a progress indicator bound
//     to the named slide, or to every slide when the value is "true"
//   - descendants of a slide carrying [AttrStaggered] animate in a cascade
//     ordered by the attribute's 1-based integer value
//
// # Usage
//
//	loop := animation.NewLoop(animation.SystemClock{})
//	opts := carousel.DefaultOptions()
//	opts.Autoplay = true
//	opts.OnActiveChange = func(i int, name string) { log.Println(i, name) }
//	c := carousel.New(renderer, loop, opts)
//	defer c.Cleanup()
//
//	c.Next()
//	c.Move(carousel.Named("pricing"))
//
// All methods must run on the goroutine that steps loop. Other goroutines
// hand work over with loop.Dispatch.
//
// # Errors
//
// No method returns an error. Unknown targets, missing containers and
// similar problems are reported to Options.Handler (or the process-wide
// [errors.DefaultHandler]) and the call leaves the carousel unchanged.
package carousel
