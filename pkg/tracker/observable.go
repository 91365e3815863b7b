package tracker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bwt-network/bwt-daemon/pkg/bitcoind"
	"github.com/bwt-network/bwt-daemon/pkg/stats"
)

// Observable represents something that can be watched on the node's wallet.
type Observable interface {
	observe(
		node bitcoind.Service,
		errChan chan error,
		eventChan chan Event,
		rateLimiter *rate.Limiter,
	)
	key() string
}

// AddressObservable watches an imported address for unspent outputs.
type AddressObservable struct {
	Wallet  string
	Address string
}

func (a *AddressObservable) observe(
	node bitcoind.Service,
	errChan chan error,
	eventChan chan Event,
	rateLimiter *rate.Limiter,
) {
	if a == nil {
		return
	}

	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	unspents, err := node.ListUnspent([]string{a.Address}, 0)
	if err != nil {
		errChan <- err
		return
	}
	if len(unspents) == 0 {
		return
	}

	stats.WalletEvents.WithLabelValues(Deposit.String()).Inc()
	eventChan <- AddressEvent{
		EventType: Deposit,
		Wallet:    a.Wallet,
		Address:   a.Address,
		Utxos:     unspents,
	}
}

func (a *AddressObservable) key() string {
	return a.Address
}

// TransactionObservable watches a wallet transaction until it confirms.
type TransactionObservable struct {
	TxID string
}

func (t *TransactionObservable) observe(
	node bitcoind.Service,
	errChan chan error,
	eventChan chan Event,
	rateLimiter *rate.Limiter,
) {
	if t == nil {
		return
	}

	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	tx, err := node.GetTransaction(t.TxID)
	if err != nil {
		errChan <- err
		return
	}

	eventType := TransactionUnconfirmed
	if tx.Confirmations > 0 {
		eventType = TransactionConfirmed
	}
	stats.WalletEvents.WithLabelValues(eventType.String()).Inc()
	eventChan <- TransactionEvent{
		EventType:     eventType,
		TxID:          t.TxID,
		BlockHash:     tx.BlockHash,
		BlockTime:     tx.BlockTime,
		Confirmations: tx.Confirmations,
	}
}

func (t *TransactionObservable) key() string {
	return t.TxID
}

type observableHandler struct {
	observable  Observable
	node        bitcoind.Service
	wg          *sync.WaitGroup
	ticker      *time.Ticker
	eventChan   chan Event
	errChan     chan error
	quitChan    chan struct{}
	rateLimiter *rate.Limiter
}

func newObservableHandler(
	observable Observable,
	node bitcoind.Service,
	wg *sync.WaitGroup,
	interval time.Duration,
	eventChan chan Event,
	errChan chan error,
	rateLimiter *rate.Limiter,
) *observableHandler {
	return &observableHandler{
		observable:  observable,
		node:        node,
		wg:          wg,
		ticker:      time.NewTicker(interval),
		eventChan:   eventChan,
		errChan:     errChan,
		quitChan:    make(chan struct{}),
		rateLimiter: rateLimiter,
	}
}

// start runs the polling loop. The caller must have registered the handler
// on the WaitGroup already.
func (h *observableHandler) start() {
	for {
		select {
		case <-h.ticker.C:
			h.observable.observe(h.node, h.errChan, h.eventChan, h.rateLimiter)
		case <-h.quitChan:
			h.ticker.Stop()
			h.wg.Done()
			return
		}
	}
}

func (h *observableHandler) stop() {
	close(h.quitChan)
}
