package bitcoind

import (
	"sort"

	"github.com/shopspring/decimal"
)

const vsizeBinWidth = 50_000 // vbytes

// FeeHistogramBin is the total vsize of mempool transactions paying at least
// FeeRate sat/vbyte.
type FeeHistogramBin struct {
	FeeRate float64
	VSize   uint64
}

// FeeHistogram bins verbose getrawmempool entries by feerate, from the most
// to the least generous, closing a bin once it spans more than vsizeBinWidth
// vbytes.
func FeeHistogram(mempoolEntries map[string]MempoolEntry) []FeeHistogramBin {
	type txWeight struct {
		vsize   uint64
		feeRate float64
	}

	entries := make([]txWeight, 0, len(mempoolEntries))
	for _, entry := range mempoolEntries {
		vsize := entry.VSize
		if vsize == 0 {
			vsize = entry.Size
		}
		if vsize == 0 {
			continue
		}
		// the fee is reported as a BTC amount; convert through decimal to
		// avoid drifting on the float representation
		feeSat := decimal.NewFromFloat(entry.Fee).Mul(decimal.NewFromInt(1e8)).IntPart()
		entries = append(entries, txWeight{vsize, float64(feeSat) / float64(vsize)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].feeRate > entries[j].feeRate
	})

	var histogram []FeeHistogramBin
	var binSize uint64
	var lastFeeRate float64

	for _, entry := range entries {
		if binSize > vsizeBinWidth && lastFeeRate != entry.feeRate {
			// vsize of transactions paying >= lastFeeRate
			histogram = append(histogram, FeeHistogramBin{lastFeeRate, binSize})
			binSize = 0
		}
		binSize += entry.vsize
		lastFeeRate = entry.feeRate
	}

	if binSize > 0 {
		histogram = append(histogram, FeeHistogramBin{lastFeeRate, binSize})
	}

	return histogram
}
