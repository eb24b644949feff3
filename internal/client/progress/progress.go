// Package progress runs the cosmetic stage indicator shown while a video is
// being converted. It is not driven by the server: the stage simply advances
// on a fixed interval and is torn down when the request settles.
package progress

import (
	"context"
	"sync"
	"time"
)

// Stages are the labels shown during a conversion, in order.
var Stages = []string{
	"Uploading Video",
	"Extracting Audio",
	"Transcribing Content",
	"Generating Article",
	"Publishing to Hashnode",
}

// EstimatedSeconds is the rough time left shown next to stage step.
func EstimatedSeconds(step int) int {
	return max(1, 20-4*step)
}

// Step is passed to the callback each time the stage advances.
type Step struct {
	Index int
	Label string
	Total int
}

// Run is one running indicator.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	step int
}

// Start reports stage 0 synchronously, then advances one stage per interval
// until the last stage is reached or the run is stopped. onStep is called
// from the run's goroutine.
func Start(ctx context.Context, interval time.Duration, stages []string, onStep func(Step)) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{cancel: cancel, done: make(chan struct{})}

	if onStep == nil {
		onStep = func(Step) {}
	}
	if len(stages) > 0 {
		onStep(Step{Index: 0, Label: stages[0], Total: len(stages)})
	}

	go func() {
		defer close(r.done)
		if len(stages) < 2 || interval <= 0 {
			<-ctx.Done()
			return
		}

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}

			// Stop may have raced the tick.
			if ctx.Err() != nil {
				return
			}

			r.mu.Lock()
			if r.step >= len(stages)-1 {
				r.mu.Unlock()
				continue
			}
			r.step++
			s := Step{Index: r.step, Label: stages[r.step], Total: len(stages)}
			r.mu.Unlock()

			onStep(s)
		}
	}()

	return r
}

// Current returns the index of the active stage.
func (r *Run) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Stop cancels the run and waits for its goroutine to exit. After Stop
// returns onStep is never called again. Stop is idempotent.
func (r *Run) Stop() {
	r.once.Do(r.cancel)
	<-r.done
}

// Done is closed once the run has fully stopped.
func (r *Run) Done() <-chan struct{} { return r.done }
