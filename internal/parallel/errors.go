// Package parallel provides the fork-join primitives shared by the
// parallel multiplication algorithms.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by a set of
// branches. It is safe for concurrent use.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	ec.SetError(left())
//	ec.SetError(right())
//	if err := ec.Err(); err != nil {
//	    return err
//	}
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err unless an error was already recorded.
// Nil errors are ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Reset clears the collector so that the next SetError is recorded.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}
