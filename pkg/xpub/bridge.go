package xpub

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bwt-network/bwt-daemon/pkg/descriptor"
)

// Descriptor builds the ranged single-key descriptor equivalent to the tagged
// key: pkh() for p2pkh, wpkh() for p2wpkh, sh(wpkh()) for p2sh-p2wpkh. The
// key's single-hop origin is attached whenever it has a parent, and the
// resulting descriptor is always wildcard-ranged.
func (k *XyzPubKey) Descriptor(trailingPath descriptor.DerivationPath) descriptor.Descriptor {
	var origin *descriptor.Bip32Origin
	if k.key.Depth() > 0 {
		parsed := descriptor.OriginFromKey(k.key)
		origin = &parsed
	}

	key := &descriptor.XPubKey{
		Origin:   origin,
		XPub:     k.key,
		Path:     trailingPath,
		Wildcard: true,
	}

	switch k.scriptType {
	case P2WPKH:
		return &descriptor.Wpkh{Key: key}
	case P2SHP2WPKH:
		return &descriptor.Sh{Inner: &descriptor.Wpkh{Key: key}}
	default:
		return &descriptor.Pkh{Key: key}
	}
}

// FromDescriptor detects whether a descriptor has a compact tagged-key form
// and returns it. This only holds for single-key pkh/wpkh/sh(wpkh)
// descriptors whose key is a wildcard-ranged extended key with no derivation
// steps beyond the ones embedded in its own origin. Most descriptors
// legitimately have no such form, in which case ok is false.
func FromDescriptor(desc descriptor.Descriptor) (*XyzPubKey, bool) {
	var key descriptor.Key
	var scriptType ScriptType

	switch d := desc.(type) {
	case *descriptor.Pkh:
		key, scriptType = d.Key, P2PKH
	case *descriptor.Wpkh:
		key, scriptType = d.Key, P2WPKH
	case *descriptor.Sh:
		wpkh, ok := d.Inner.(*descriptor.Wpkh)
		if !ok {
			return nil, false
		}
		key, scriptType = wpkh.Key, P2SHP2WPKH
	default:
		return nil, false
	}

	xkey, ok := key.(*descriptor.XPubKey)
	if !ok || !xkey.Wildcard || len(xkey.Path) > 0 {
		return nil, false
	}

	network := Mainnet
	if !xkey.XPub.IsForNet(&chaincfg.MainNetParams) {
		network = Testnet
	}
	return &XyzPubKey{scriptType: scriptType, network: network, key: xkey.XPub}, true
}

// DeriveAddress derives the address of the given child index, going through
// the equivalent descriptor so the result is bit-identical to deriving from
// the descriptor string directly.
func (k *XyzPubKey) DeriveAddress(index uint32, network Network) (btcutil.Address, error) {
	derived, err := descriptor.Derive(k.Descriptor(nil), index)
	if err != nil {
		return nil, err
	}
	return descriptor.Address(derived, network.ChainParams())
}
