// Package tracker periodically polls the node's wallet for activity on
// watched addresses and transactions, emitting typed events on a channel.
package tracker

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/bwt-network/bwt-daemon/pkg/bitcoind"
)

const (
	eventQueueMaxSize = 100
	errorQueueMaxSize = 10

	defaultInterval     = 5 * time.Second
	defaultRequestsRate = 10 // wallet polls per second across all observables
)

// Service watches over wallet activity. Use Start and Stop to manage it.
type Service interface {
	Start()
	Stop()
	Watch(observable Observable)
	Unwatch(observable Observable)
	Events() chan Event
}

type walletTracker struct {
	interval     time.Duration
	node         bitcoind.Service
	errChan      chan error
	eventChan    chan Event
	observables  map[string]*observableHandler
	errorHandler func(err error)
	rateLimiter  *rate.Limiter
	mutex        *sync.RWMutex
	wg           *sync.WaitGroup
}

// Opts defines the parameters for creating a tracker service with NewService.
type Opts struct {
	Node         bitcoind.Service
	Interval     time.Duration
	ErrorHandler func(err error)
}

// NewService returns a wallet tracker ready to watch for activity on the
// node. Use Start and Stop to manage it.
func NewService(opts Opts) Service {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(err error) {
			log.WithError(err).Warn("tracker observation failed")
		}
	}

	return &walletTracker{
		interval:     interval,
		node:         opts.Node,
		errChan:      make(chan error, errorQueueMaxSize),
		eventChan:    make(chan Event, eventQueueMaxSize),
		observables:  map[string]*observableHandler{},
		errorHandler: errorHandler,
		rateLimiter:  rate.NewLimiter(rate.Limit(defaultRequestsRate), 1),
		mutex:        &sync.RWMutex{},
		wg:           &sync.WaitGroup{},
	}
}

// Start consumes observation errors until the service is stopped.
func (t *walletTracker) Start() {
	for err := range t.errChan {
		go t.errorHandler(err)
	}
}

// Stop stops watching all observables and closes the event channel after a
// final QuitEvent.
func (t *walletTracker) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, handler := range t.observables {
		go handler.stop()
	}
	t.wg.Wait()
	t.eventChan <- QuitEvent{}
	close(t.errChan)
}

// Events returns the channel on which wallet activity is emitted.
func (t *walletTracker) Events() chan Event {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.eventChan
}

// Watch adds a new observable, unless the same one is already watched.
func (t *walletTracker) Watch(observable Observable) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.observables[observable.key()]; !ok {
		handler := newObservableHandler(
			observable,
			t.node,
			t.wg,
			t.interval,
			t.eventChan,
			t.errChan,
			t.rateLimiter,
		)

		t.observables[observable.key()] = handler
		t.wg.Add(1)
		go handler.start()
	}
}

// Unwatch stops watching the given observable.
func (t *walletTracker) Unwatch(observable Observable) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if handler, ok := t.observables[observable.key()]; ok {
		handler.stop()
		delete(t.observables, observable.key())
	}
}
