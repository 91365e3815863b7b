package xpub

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network enumerates the supported Bitcoin networks. Regtest shares testnet's
// extended-key version bytes.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// ChainParams returns the btcd chain parameters of the network.
func (n Network) ChainParams() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// ParseNetwork converts a network name to its Network value.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet", "bitcoin", "main":
		return Mainnet, nil
	case "testnet", "test":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}

// ScriptType enumerates the spending-script templates a key can be tagged
// with. The set is closed.
type ScriptType int

const (
	P2PKH ScriptType = iota
	P2WPKH
	P2SHP2WPKH
)

func (t ScriptType) String() string {
	switch t {
	case P2PKH:
		return "p2pkh"
	case P2WPKH:
		return "p2wpkh"
	case P2SHP2WPKH:
		return "p2sh-p2wpkh"
	default:
		return "unknown"
	}
}

type versionEntry struct {
	version    [4]byte
	network    Network
	scriptType ScriptType
}

// The 6 SLIP-132 version prefixes covered here: one per script type for each
// of mainnet and testnet. Regtest reuses the testnet family.
var versionTable = [6]versionEntry{
	{[4]byte{0x04, 0x88, 0xB2, 0x1E}, Mainnet, P2PKH},       // xpub
	{[4]byte{0x04, 0xB2, 0x47, 0x46}, Mainnet, P2WPKH},      // zpub
	{[4]byte{0x04, 0x9D, 0x7C, 0xB2}, Mainnet, P2SHP2WPKH},  // ypub
	{[4]byte{0x04, 0x35, 0x87, 0xCF}, Testnet, P2PKH},       // tpub
	{[4]byte{0x04, 0x5F, 0x1C, 0xF6}, Testnet, P2WPKH},      // vpub
	{[4]byte{0x04, 0x4A, 0x52, 0x62}, Testnet, P2SHP2WPKH},  // upub
}

func lookupVersion(version []byte) (Network, ScriptType, error) {
	for _, entry := range versionTable {
		if [4]byte{version[0], version[1], version[2], version[3]} == entry.version {
			return entry.network, entry.scriptType, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %x", ErrUnknownVersion, version)
}

// canonicalPrefix returns the plain p2pkh-style prefix of the network, the
// only family hdkeychain natively understands.
func canonicalPrefix(network Network) [4]byte {
	prefix, _ := tagPrefix(network, P2PKH)
	return prefix
}

// tagPrefix is the inverse table lookup, used to re-serialize a tagged key
// back to its original family.
func tagPrefix(network Network, scriptType ScriptType) ([4]byte, error) {
	if network == Regtest {
		network = Testnet
	}
	for _, entry := range versionTable {
		if entry.network == network && entry.scriptType == scriptType {
			return entry.version, nil
		}
	}
	return [4]byte{}, fmt.Errorf("%w: %s/%s", ErrUnknownVersion, network, scriptType)
}
