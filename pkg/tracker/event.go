package tracker

import "github.com/bwt-network/bwt-daemon/pkg/bitcoind"

const (
	QuitSignal EventType = iota
	Deposit
	TransactionConfirmed
	TransactionUnconfirmed
)

type EventType int

func (et EventType) String() string {
	switch et {
	case QuitSignal:
		return "QuitSignal"
	case Deposit:
		return "Deposit"
	case TransactionConfirmed:
		return "TransactionConfirmed"
	case TransactionUnconfirmed:
		return "TransactionUnconfirmed"
	default:
		return "Unknown"
	}
}

// Event values are emitted through a channel during observation.
type Event interface {
	Type() EventType
}

type QuitEvent struct{}

func (q QuitEvent) Type() EventType {
	return QuitSignal
}

// AddressEvent reports unspent outputs found on a watched address.
type AddressEvent struct {
	EventType EventType
	Wallet    string
	Address   string
	Utxos     []bitcoind.Unspent
}

func (a AddressEvent) Type() EventType {
	return a.EventType
}

// TransactionEvent reports the confirmation status of a watched transaction.
type TransactionEvent struct {
	EventType     EventType
	TxID          string
	BlockHash     string
	BlockTime     uint64
	Confirmations int64
}

func (t TransactionEvent) Type() EventType {
	return t.EventType
}
