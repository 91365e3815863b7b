package tracker

import (
	"sync"

	"github.com/bwt-network/bwt-daemon/pkg/bitcoind"
)

// mockNode is an in-memory stand-in for the node wallet.
type mockNode struct {
	mutex    sync.Mutex
	unspents map[string][]bitcoind.Unspent
	txs      map[string]*bitcoind.WalletTransaction
}

func newMockNode() *mockNode {
	return &mockNode{
		unspents: map[string][]bitcoind.Unspent{},
		txs:      map[string]*bitcoind.WalletTransaction{},
	}
}

func (m *mockNode) fund(addr string, utxo bitcoind.Unspent) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.unspents[addr] = append(m.unspents[addr], utxo)
}

func (m *mockNode) confirm(txid string, confirmations int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.txs[txid] = &bitcoind.WalletTransaction{
		TxID:          txid,
		Confirmations: confirmations,
		BlockHash:     "00000000000000000000a1b2",
		BlockTime:     1600000000,
	}
}

func (m *mockNode) ListUnspent(
	addrs []string, minConfirmations int,
) ([]bitcoind.Unspent, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	unspents := make([]bitcoind.Unspent, 0)
	for _, addr := range addrs {
		unspents = append(unspents, m.unspents[addr]...)
	}
	return unspents, nil
}

func (m *mockNode) GetTransaction(txid string) (*bitcoind.WalletTransaction, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if tx, ok := m.txs[txid]; ok {
		return tx, nil
	}
	return &bitcoind.WalletTransaction{TxID: txid}, nil
}

func (m *mockNode) GetBlockCount() (uint64, error) { return 100, nil }

func (m *mockNode) GetBlockchainInfo() (*bitcoind.BlockchainInfo, error) {
	return &bitcoind.BlockchainInfo{Chain: "regtest", Blocks: 100, Headers: 100}, nil
}

func (m *mockNode) GetWalletInfo() (*bitcoind.WalletInfo, error) {
	return &bitcoind.WalletInfo{WalletName: "bwt"}, nil
}

func (m *mockNode) GetBlockStats(blockhash string) (*bitcoind.BlockStats, error) {
	return &bitcoind.BlockStats{}, nil
}

func (m *mockNode) GetMempoolInfo() (*bitcoind.MempoolInfo, error) {
	return &bitcoind.MempoolInfo{}, nil
}

func (m *mockNode) GetRawMempool() (map[string]bitcoind.MempoolEntry, error) {
	return map[string]bitcoind.MempoolEntry{}, nil
}

func (m *mockNode) ImportAddresses(
	addrs []string, label string, rescan bitcoind.RescanSince,
) error {
	return nil
}

func (m *mockNode) WaitBlockchainSync(
	progress chan<- bitcoind.Progress,
) (*bitcoind.BlockchainInfo, error) {
	return m.GetBlockchainInfo()
}

func (m *mockNode) WaitWalletScan(
	progress chan<- bitcoind.Progress,
) (*bitcoind.WalletInfo, error) {
	return m.GetWalletInfo()
}
