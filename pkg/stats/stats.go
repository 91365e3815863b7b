// Package stats exposes runtime and wallet metrics. Counters are registered
// on the default Prometheus registry and a periodic logger reports process
// memory usage while the daemon runs.
package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
)

var (
	// RpcCalls counts JSON-RPC requests issued to the node, by method.
	RpcCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bwt",
		Name:      "node_rpc_calls_total",
		Help:      "Number of JSON-RPC requests issued to the node.",
	}, []string{"method"})

	// WalletEvents counts events emitted by the wallet tracker, by type.
	WalletEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bwt",
		Name:      "wallet_events_total",
		Help:      "Number of events emitted by the wallet tracker.",
	}, []string{"type"})

	// ImportedAddresses tracks the number of addresses imported into the
	// node's watch-only wallet.
	ImportedAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bwt",
		Name:      "imported_addresses",
		Help:      "Number of addresses imported into the watch-only wallet.",
	})
)

// EnableRuntimeStatistics starts a goroutine that periodically logs memory
// usage and goroutine count of the process. On context cancellation the
// collected Prometheus metrics are dumped to a file under datadir.
func EnableRuntimeStatistics(
	ctx context.Context, interval time.Duration, datadir string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				logMemoryStatistics()
				logNumOfRoutines()
			case <-ctx.Done():
				ticker.Stop()
				if err := DumpMetrics(datadir); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

func logMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

func logNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}

// DumpMetrics appends the current state of the default Prometheus registry
// to a stats file under the given directory.
func DumpMetrics(datadir string) error {
	file, err := os.OpenFile(
		filepath.Join(datadir, "stats"),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, family := range metricFamilies {
		if _, err := writer.WriteString(family.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
