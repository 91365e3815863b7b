// Package xpub normalizes and round-trips extended public keys: standard
// BIP-32 xpubs and their SLIP-132 script-type-tagged variants (ypub, zpub and
// the testnet families), and bridges them to single-key wildcard output
// descriptors.
package xpub

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrInvalidEncoding ...
	ErrInvalidEncoding = errors.New("invalid base58check encoding")
	// ErrInvalidLength ...
	ErrInvalidLength = errors.New("invalid extended key payload length")
	// ErrUnknownVersion ...
	ErrUnknownVersion = errors.New("unknown extended key version")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
)

// The serialized payload is:
//   version (4) || depth (1) || parent fingerprint (4) ||
//   child num (4) || chain code (32) || public key (33)
const serializedKeyLen = 78

// XyzPubKey is an extended public key with an associated script type, as
// signalled by its SLIP-132 version prefix. A plain xpub/tpub is tagged
// p2pkh. Values are immutable once parsed.
type XyzPubKey struct {
	scriptType ScriptType
	network    Network
	key        *hdkeychain.ExtendedKey
}

// Parse decodes a base58check-encoded extended public key carrying any of the
// 6 supported version prefixes.
//
// hdkeychain expects the plain p2pkh version bytes, so the tagged prefix is
// resolved against the version table first and a faux xpub with the canonical
// prefix spliced in is handed to its parser.
func Parse(inp string) (*XyzPubKey, error) {
	decoded := base58.Decode(inp)
	if len(decoded) < 5 {
		return nil, ErrInvalidEncoding
	}
	payload := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]
	if !bytes.Equal(checksum, chainhash.DoubleHashB(payload)[:4]) {
		return nil, ErrInvalidEncoding
	}
	if len(payload) != serializedKeyLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(payload))
	}

	network, scriptType, err := lookupVersion(payload[:4])
	if err != nil {
		return nil, err
	}

	canonical := canonicalPrefix(network)
	copy(payload[:4], canonical[:])

	key, err := hdkeychain.NewKeyFromString(checkEncode(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if key.IsPrivate() {
		return nil, fmt.Errorf("%w: key material is private", ErrInvalidEncoding)
	}

	return &XyzPubKey{scriptType: scriptType, network: network, key: key}, nil
}

// String re-serializes the key with its original tagged version prefix, so
// that Parse(k.String()) reproduces k exactly.
func (k *XyzPubKey) String() string {
	decoded := base58.Decode(k.key.String())
	payload := decoded[:len(decoded)-4]

	tag, err := tagPrefix(k.network, k.scriptType)
	if err != nil {
		// unreachable: the pair was resolved from the table at parse time
		return k.key.String()
	}
	copy(payload[:4], tag[:])
	return checkEncode(payload)
}

// ScriptType returns the script type the key is tagged with.
func (k *XyzPubKey) ScriptType() ScriptType {
	return k.scriptType
}

// Network returns the network family of the key's version prefix.
func (k *XyzPubKey) Network() Network {
	return k.network
}

// Key returns the underlying extended key, re-canonicalized to the plain
// prefix family.
func (k *XyzPubKey) Key() *hdkeychain.ExtendedKey {
	return k.key
}

// MatchesNetwork reports whether the key can be used on the given network.
// testnet and regtest share the same bip32 version bytes.
func (k *XyzPubKey) MatchesNetwork(network Network) bool {
	return k.network == network || (k.network == Testnet && network == Regtest)
}

// MarshalText implements encoding.TextMarshaler.
func (k *XyzPubKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *XyzPubKey) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}

func checkEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+4)
	buf = append(buf, payload...)
	buf = append(buf, chainhash.DoubleHashB(payload)[:4]...)
	return base58.Encode(buf)
}
