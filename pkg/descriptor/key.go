package descriptor

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// Key is a key expression appearing inside an output descriptor.
type Key interface {
	String() string
}

// Bip32Origin locates a key relative to a named ancestor: the ancestor's
// fingerprint plus the derivation steps leading from it to the key.
type Bip32Origin struct {
	Fingerprint uint32
	Path        DerivationPath
}

// OriginFromKey computes the single-hop origin of an extended key: its parent
// fingerprint and own child index when the key has a parent, or its own
// fingerprint with an empty path for a master key.
func OriginFromKey(key *hdkeychain.ExtendedKey) Bip32Origin {
	if key.Depth() > 0 {
		return Bip32Origin{
			Fingerprint: key.ParentFingerprint(),
			Path:        DerivationPath{key.ChildIndex()},
		}
	}
	return Bip32Origin{Fingerprint: fingerprint(key)}
}

// Child returns a new origin with one more derivation step appended.
func (o Bip32Origin) Child(childNum uint32) Bip32Origin {
	return Bip32Origin{o.Fingerprint, o.Path.Child(childNum)}
}

// Extend returns a new origin with the given path suffix appended.
func (o Bip32Origin) Extend(path DerivationPath) Bip32Origin {
	return Bip32Origin{o.Fingerprint, o.Path.Extend(path)}
}

func (o Bip32Origin) String() string {
	if len(o.Path) == 0 {
		return fmt.Sprintf("%08x", o.Fingerprint)
	}
	return fmt.Sprintf("%08x/%s", o.Fingerprint, o.Path)
}

// XPubKey is an extended public key expression, optionally annotated with its
// BIP32 origin and followed by a derivation path and a range wildcard.
type XPubKey struct {
	Origin   *Bip32Origin
	XPub     *hdkeychain.ExtendedKey
	Path     DerivationPath
	Wildcard bool
}

func (k *XPubKey) String() string {
	var sb strings.Builder
	if k.Origin != nil {
		sb.WriteString("[")
		sb.WriteString(k.Origin.String())
		sb.WriteString("]")
	}
	sb.WriteString(k.XPub.String())
	if len(k.Path) > 0 {
		sb.WriteString("/")
		sb.WriteString(k.Path.String())
	}
	if k.Wildcard {
		sb.WriteString("/*")
	}
	return sb.String()
}

// pubKey resolves the expression to a concrete public key. It fails on ranged
// expressions whose wildcard has not been resolved yet.
func (k *XPubKey) pubKey() (*btcec.PublicKey, error) {
	if k.Wildcard {
		return nil, ErrRangedDescriptor
	}
	key := k.XPub
	for _, childNum := range k.Path {
		child, err := key.Derive(childNum)
		if err != nil {
			return nil, err
		}
		key = child
	}
	return key.ECPubKey()
}

// ConstKey is a bare hex-encoded public key expression.
type ConstKey struct {
	Hex string
	Key *btcec.PublicKey
}

func (k *ConstKey) String() string {
	return k.Hex
}

func fingerprint(key *hdkeychain.ExtendedKey) uint32 {
	pub, err := key.ECPubKey()
	if err != nil {
		// the key material was validated at parse time
		return 0
	}
	return binary.BigEndian.Uint32(btcutil.Hash160(pub.SerializeCompressed())[:4])
}
