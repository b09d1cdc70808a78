package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key: one caller
// runs fn, the rest wait and share its result.
type SingleFlight struct {
	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	done sync.WaitGroup
	val  any
	err  error
}

// Do returns fn's result for key. The bool reports whether the result was
// shared from another caller's in-flight call.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}

	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		f.done.Wait()
		return f.val, f.err, true
	}

	f := &flight{}
	f.done.Add(1)
	g.flights[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	f.done.Done()

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	return f.val, f.err, false
}
