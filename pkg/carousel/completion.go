package carousel

// Completion is a one-shot signal resolved on the carousel's loop.
//
// Callbacks registered with Then run on the loop, in registration order,
// when the signal resolves. Done exposes the same event as a channel for
// code outside the loop.
type Completion struct {
	done      chan struct{}
	resolved  bool
	callbacks []func()
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func resolvedCompletion() *Completion {
	c := newCompletion()
	c.resolve()
	return c
}

// Then registers fn to run on resolution. If the signal already resolved,
// fn runs immediately.
func (c *Completion) Then(fn func()) {
	if c.resolved {
		fn()
		return
	}
	c.callbacks = append(c.callbacks, fn)
}

// Done returns a channel closed on resolution.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Resolved reports whether the signal fired.
func (c *Completion) Resolved() bool { return c.resolved }

func (c *Completion) resolve() {
	if c.resolved {
		return
	}
	c.resolved = true
	close(c.done)
	callbacks := c.callbacks
	c.callbacks = nil
	for _, fn := range callbacks {
		fn()
	}
}

// all resolves once every input has resolved.
func all(cs ...*Completion) *Completion {
	out := newCompletion()
	pending := len(cs)
	if pending == 0 {
		out.resolve()
		return out
	}
	for _, c := range cs {
		c.Then(func() {
			pending--
			if pending == 0 {
				out.resolve()
			}
		})
	}
	return out
}
