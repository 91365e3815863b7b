package tracker

import "time"

// Debounce returns a channel that coalesces bursts of signals. A signal
// arriving after a quiet period of idleness is forwarded on the forward
// channel right away; signals arriving sooner are deferred and merged, so the
// forward channel fires at most once per quiet period. The returned channel
// is closed by closing the input side.
func Debounce(forward chan<- struct{}, quiet time.Duration) chan<- struct{} {
	signals := make(chan struct{}, eventQueueMaxSize)

	go func() {
		var timer *time.Timer
		var fire <-chan time.Time
		var lastForward time.Time

		for {
			select {
			case _, ok := <-signals:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					close(forward)
					return
				}
				if fire != nil {
					// a forward is already pending for this burst
					continue
				}
				wait := quiet - time.Since(lastForward)
				if wait <= 0 {
					lastForward = time.Now()
					forward <- struct{}{}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(wait)
				} else {
					timer.Reset(wait)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				lastForward = time.Now()
				forward <- struct{}{}
			}
		}
	}()

	return signals
}
