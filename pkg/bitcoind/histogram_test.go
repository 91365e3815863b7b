package bitcoind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeHistogram(t *testing.T) {
	entries := map[string]MempoolEntry{
		// 120000 sat over 60000 vb = 2 sat/vb
		"a": {VSize: 60000, Fee: 0.0012},
		// 20000 sat over 10000 vb = 2 sat/vb, merged into the same bin
		"b": {VSize: 10000, Fee: 0.0002},
		// 60000 sat over 60000 vb = 1 sat/vb, opens a new bin
		"c": {VSize: 60000, Fee: 0.0006},
	}

	histogram := FeeHistogram(entries)
	assert.Equal(t, []FeeHistogramBin{
		{FeeRate: 2, VSize: 70000},
		{FeeRate: 1, VSize: 60000},
	}, histogram)
}

func TestFeeHistogramSingleBin(t *testing.T) {
	entries := map[string]MempoolEntry{
		// 1000 sat over 500 vb = 2 sat/vb
		"a": {VSize: 500, Fee: 0.00001},
		// 6000 sat over 1500 vb = 4 sat/vb
		"b": {VSize: 1500, Fee: 0.00006},
	}

	// both fit in one open bin, closed by the final flush at the lowest rate
	histogram := FeeHistogram(entries)
	assert.Equal(t, []FeeHistogramBin{{FeeRate: 2, VSize: 2000}}, histogram)
}

func TestFeeHistogramSizeFallback(t *testing.T) {
	entries := map[string]MempoolEntry{
		// pre-0.19 nodes report size instead of vsize
		"a": {Size: 1000, Fee: 0.00001},
	}

	histogram := FeeHistogram(entries)
	assert.Equal(t, []FeeHistogramBin{{FeeRate: 1, VSize: 1000}}, histogram)
}

func TestFeeHistogramEmpty(t *testing.T) {
	assert.Empty(t, FeeHistogram(nil))
	assert.Empty(t, FeeHistogram(map[string]MempoolEntry{}))
}
