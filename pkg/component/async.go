package component

import "context"

// Go runs work off the loop with a context that is cancelled when the
// component unmounts. The continuation work returns is run on the loop,
// and only if the component is still alive at that point.
//
// Without a Scheduler both run synchronously on the caller.
func (c *Component) Go(work func(ctx context.Context) func()) {
	if !c.Alive() {
		return
	}
	ctx := c.ctx
	guarded := func() func() {
		next := work(ctx)
		if next == nil {
			return nil
		}
		return func() {
			if !c.Alive() {
				c.logger.Debug("dropping continuation after unmount", "id", c.id)
				return
			}
			_ = c.guard("continuation", func() error {
				next()
				return nil
			})
		}
	}

	if c.sched == nil {
		if next := guarded(); next != nil {
			next()
		}
		return
	}
	c.sched.Go(guarded)
}
