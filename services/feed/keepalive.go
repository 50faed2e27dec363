package feed

import (
	"context"
	"time"
)

// Chunk is one unit of a keepalive stream: heartbeat filler while the
// wrapped operation is pending, then exactly one terminal chunk carrying
// the operation's payload or error.
type Chunk struct {
	Data []byte
	Err  error
}

// Keepalive runs op once and turns it into a paced chunk sequence: one
// filler chunk per elapsed interval while op is pending, then the
// terminal chunk, then the channel closes. The returned channel has
// capacity one so at most a single heartbeat is ever buffered ahead of
// the consumer; a slower consumer slows the cadence down instead of
// piling up filler. A tick racing the terminal chunk is dropped.
//
// Cancelling ctx stops the timer and closes the stream without a
// terminal chunk; op observes the same ctx and is expected to abandon
// whatever fetch or parse work is in flight.
func Keepalive(ctx context.Context, interval time.Duration, filler []byte, op func(context.Context) ([]byte, error)) <-chan Chunk {
	out := make(chan Chunk, 1)

	go func() {
		defer close(out)

		done := make(chan Chunk, 1)
		go func() {
			data, err := op(ctx)
			done <- Chunk{Data: data, Err: err}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case terminal := <-done:
				select {
				case out <- terminal:
				case <-ctx.Done():
				}
				return
			case <-ticker.C:
				select {
				case out <- Chunk{Data: filler}:
				case terminal := <-done:
					// op resolved while the previous chunk was still
					// awaiting delivery, the pending heartbeat is dropped
					select {
					case out <- terminal:
					case <-ctx.Done():
					}
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
