package events

// Pending is the completion handle returned by PublishAsync.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) complete(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the publish has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the publish result, or nil while still in flight.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the publish finishes and returns the same error Publish would.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}
