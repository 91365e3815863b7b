package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bwt-network/bwt-daemon/config"
	"github.com/bwt-network/bwt-daemon/pkg/bitcoind"
	"github.com/bwt-network/bwt-daemon/pkg/descriptor"
	"github.com/bwt-network/bwt-daemon/pkg/stats"
	"github.com/bwt-network/bwt-daemon/pkg/tracker"
	"github.com/bwt-network/bwt-daemon/pkg/xpub"
)

const walletLabel = "bwt"

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	network := config.GetNetwork()
	node, err := bitcoind.NewService(config.GetString(config.BitcoindURLKey))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to the node")
	}

	if _, err := node.WaitBlockchainSync(nil); err != nil {
		log.WithError(err).Fatal("error while waiting for the node to sync")
	}
	if _, err := node.WaitWalletScan(nil); err != nil {
		log.WithError(err).Fatal("error while waiting for the wallet to scan")
	}

	addresses, err := watchedAddresses(network)
	if err != nil {
		log.WithError(err).Fatal("failed to derive watched addresses")
	}
	log.Infof("importing %d addresses", len(addresses))

	if err := node.ImportAddresses(
		addresses, walletLabel, config.GetRescanSince(),
	); err != nil {
		log.WithError(err).Fatal("failed to import watched addresses")
	}
	stats.ImportedAddresses.Set(float64(len(addresses)))

	// importmulti with a timestamp kicks off a wallet rescan
	if _, err := node.WaitWalletScan(nil); err != nil {
		log.WithError(err).Fatal("error while waiting for the rescan to finish")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statsInterval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	stats.EnableRuntimeStatistics(ctx, statsInterval, config.GetDatadir())

	pollInterval := time.Duration(config.GetInt(config.PollIntervalKey)) * time.Second
	walletTracker := tracker.NewService(tracker.Opts{
		Node:     node,
		Interval: pollInterval,
	})
	go walletTracker.Start()
	defer walletTracker.Stop()

	for _, address := range addresses {
		walletTracker.Watch(&tracker.AddressObservable{
			Wallet:  walletLabel,
			Address: address,
		})
	}

	debouncePeriod := time.Duration(config.GetInt(config.DebouncePeriodKey)) * time.Millisecond
	refresh := make(chan struct{}, 1)
	signals := tracker.Debounce(refresh, debouncePeriod)

	go forwardEvents(walletTracker, signals)
	go refreshOnActivity(node, refresh)

	log.Info("daemon is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
}

// watchedAddresses derives the full set of addresses to import, honoring the
// configured gap limit for every ranged entry.
func watchedAddresses(network xpub.Network) ([]string, error) {
	gapLimit := uint32(config.GetInt(config.GapLimitKey))
	addresses := make([]string, 0)

	keys, err := config.GetXpubs()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		for index := uint32(0); index < gapLimit; index++ {
			address, err := key.DeriveAddress(index, network)
			if err != nil {
				return nil, fmt.Errorf("derive %s at %d: %w", key, index, err)
			}
			addresses = append(addresses, address.EncodeAddress())
		}
	}

	descriptors, err := config.GetDescriptors()
	if err != nil {
		return nil, err
	}
	for _, desc := range descriptors {
		derived, err := descriptorAddresses(desc, network, gapLimit)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, derived...)
	}

	return addresses, nil
}

func descriptorAddresses(
	desc descriptor.Descriptor, network xpub.Network, gapLimit uint32,
) ([]string, error) {
	net := network.ChainParams()

	address, err := descriptor.Address(desc, net)
	if err == nil {
		return []string{address.EncodeAddress()}, nil
	}
	if !errors.Is(err, descriptor.ErrRangedDescriptor) {
		return nil, fmt.Errorf("address for %s: %w", desc, err)
	}

	addresses := make([]string, 0, gapLimit)
	for index := uint32(0); index < gapLimit; index++ {
		child, err := descriptor.Derive(desc, index)
		if err != nil {
			return nil, fmt.Errorf("derive %s at %d: %w", desc, index, err)
		}
		address, err := descriptor.Address(child, net)
		if err != nil {
			return nil, fmt.Errorf("address for %s: %w", child, err)
		}
		addresses = append(addresses, address.EncodeAddress())
	}
	return addresses, nil
}

// forwardEvents turns the tracker event stream into refresh signals, leaving
// it to the debouncer to coalesce bursts of activity.
func forwardEvents(walletTracker tracker.Service, signals chan<- struct{}) {
	for event := range walletTracker.Events() {
		if event.Type() == tracker.QuitSignal {
			close(signals)
			return
		}
		log.Debugf("wallet activity: %s", event.Type())
		signals <- struct{}{}
	}
}

// refreshOnActivity reacts to debounced wallet activity by logging a summary
// of the wallet and the current mempool fee situation.
func refreshOnActivity(node bitcoind.Service, refresh <-chan struct{}) {
	for range refresh {
		info, err := node.GetWalletInfo()
		if err != nil {
			log.WithError(err).Warn("failed to refresh wallet info")
			continue
		}
		log.Infof("wallet %s now has %d transactions", info.WalletName, info.TxCount)

		entries, err := node.GetRawMempool()
		if err != nil {
			log.WithError(err).Warn("failed to fetch mempool")
			continue
		}
		histogram := bitcoind.FeeHistogram(entries)
		if len(histogram) > 0 {
			log.Infof(
				"mempool: %d txs, next block starts around %.1f sat/vb",
				len(entries), histogram[0].FeeRate,
			)
		}

		logChainFees(node)
	}
}

func logChainFees(node bitcoind.Service) {
	chain, err := node.GetBlockchainInfo()
	if err != nil {
		log.WithError(err).Warn("failed to fetch chain info")
		return
	}
	blockStats, err := node.GetBlockStats(chain.BestBlockHash)
	if err != nil {
		log.WithError(err).Warn("failed to fetch block stats")
		return
	}
	mempool, err := node.GetMempoolInfo()
	if err != nil {
		log.WithError(err).Warn("failed to fetch mempool info")
		return
	}
	log.Debugf(
		"tip %d: %d txs, avg feerate %d sat/vb, median %d sat/vb; mempool uses %d bytes",
		blockStats.Height, blockStats.Txs, blockStats.AvgFeeRate,
		blockStats.FeeRatePercentiles[2], mempool.Usage,
	)
}
