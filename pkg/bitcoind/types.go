package bitcoind

import (
	"encoding/json"
	"fmt"
)

// BlockchainInfo is the subset of getblockchaininfo consumed here.
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               uint64  `json:"blocks"`
	Headers              uint64  `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	MedianTime           uint64  `json:"mediantime"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	Pruned               bool    `json:"pruned"`
}

// WalletInfo is the subset of getwalletinfo consumed here. Scanning is nil
// when the node predates the scanning field (Bitcoin Core < 0.19).
type WalletInfo struct {
	WalletName string           `json:"walletname"`
	TxCount    uint64           `json:"txcount"`
	Scanning   *ScanningDetails `json:"scanning"`
}

// ScanningDetails reports a wallet rescan in progress. The node serializes it
// as either the literal false or a {duration, progress} object.
type ScanningDetails struct {
	Active   bool
	Duration int64
	Progress float64
}

func (s *ScanningDetails) UnmarshalJSON(data []byte) error {
	if string(data) == "false" {
		*s = ScanningDetails{}
		return nil
	}
	var details struct {
		Duration int64   `json:"duration"`
		Progress float64 `json:"progress"`
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return fmt.Errorf("unexpected scanning status: %s", data)
	}
	*s = ScanningDetails{Active: true, Duration: details.Duration, Progress: details.Progress}
	return nil
}

// BlockStats only supports the getblockstats fields we're interested in.
type BlockStats struct {
	Height             uint64    `json:"height"`
	Time               uint64    `json:"time"`
	Txs                uint64    `json:"txs"`
	TotalWeight        uint64    `json:"total_weight"`
	TotalSize          uint64    `json:"total_size"`
	TotalFee           uint64    `json:"totalfee"`
	AvgFeeRate         uint64    `json:"avgfeerate"`
	FeeRatePercentiles [5]uint64 `json:"feerate_percentiles"`
}

// MempoolInfo is the subset of getmempoolinfo consumed here.
type MempoolInfo struct {
	Size          uint64  `json:"size"`
	Bytes         uint64  `json:"bytes"`
	Usage         uint64  `json:"usage"`
	MempoolMinFee float64 `json:"mempoolminfee"`
}

// MempoolEntry is a verbose getrawmempool entry. Size doubles as the vsize
// fallback on nodes that predate the vsize field.
type MempoolEntry struct {
	VSize uint64  `json:"vsize"`
	Size  uint64  `json:"size"`
	Fee   float64 `json:"fee"`
}

// WalletTransaction is the subset of a gettransaction result consumed here.
type WalletTransaction struct {
	TxID          string  `json:"txid"`
	Confirmations int64   `json:"confirmations"`
	BlockHash     string  `json:"blockhash"`
	BlockTime     uint64  `json:"blocktime"`
	Fee           float64 `json:"fee"`
}

// Unspent is a listunspent result entry.
type Unspent struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Address       string  `json:"address"`
	Label         string  `json:"label"`
	Amount        float64 `json:"amount"`
	Confirmations uint64  `json:"confirmations"`
	ScriptPubKey  string  `json:"scriptPubKey"`
}

const (
	// ProgressSync reports header/block sync progress.
	ProgressSync ProgressType = iota
	// ProgressScan reports wallet rescan progress.
	ProgressScan
)

type ProgressType int

// Progress events are emitted through a channel while waiting for the node.
type Progress interface {
	Type() ProgressType
}

type SyncProgress struct {
	Progress float32
	Tip      uint64
}

func (p SyncProgress) Type() ProgressType {
	return ProgressSync
}

type ScanProgress struct {
	Progress float32
	Eta      uint64
}

func (p ScanProgress) Type() ProgressType {
	return ProgressScan
}
