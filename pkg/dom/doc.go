// Package dom is a headless element tree that implements
// [carousel.Renderer].
//
// It models the parts of a browser document the carousel engine relies on:
// attributes, deep clones, inline transitions that end with a
// transitionend event, images with an intrinsic height, pointer hover and
// a container height. Time comes from the [animation.Loop] the document is
// bound to, so a fake clock makes every transition deterministic.
//
//	doc := dom.NewDocument(loop)
//	doc.Mount(dom.Container(
//	    dom.Slide("intro", dom.Text("Hello")),
//	    dom.Slide("", dom.Staggered(1, dom.Text("A")), dom.Staggered(2, dom.Text("B"))),
//	    dom.Progress(""),
//	))
//	c := carousel.New(doc, loop, carousel.DefaultOptions())
//
// [Element.Computed] evaluates an element's transform and opacity at any
// instant for drawing; see package raster.
package dom
