package descriptor

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Address computes the address of a concrete (non-ranged) single-key
// descriptor for the given network.
func Address(desc Descriptor, net *chaincfg.Params) (btcutil.Address, error) {
	switch d := desc.(type) {
	case *Pkh:
		pub, err := concretePubKey(d.Key)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressPubKeyHash(
			btcutil.Hash160(pub.SerializeCompressed()), net,
		)
	case *Wpkh:
		pub, err := concretePubKey(d.Key)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressWitnessPubKeyHash(
			btcutil.Hash160(pub.SerializeCompressed()), net,
		)
	case *Sh:
		wpkh, ok := d.Inner.(*Wpkh)
		if !ok {
			return nil, ErrUnsupportedScript
		}
		witAddr, err := Address(wpkh, net)
		if err != nil {
			return nil, err
		}
		witnessProgram, err := txscript.PayToAddrScript(witAddr)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressScriptHash(witnessProgram, net)
	default:
		return nil, ErrUnsupportedScript
	}
}

func concretePubKey(key Key) (*btcec.PublicKey, error) {
	switch k := key.(type) {
	case *XPubKey:
		return k.pubKey()
	case *ConstKey:
		return k.Key, nil
	default:
		return nil, ErrUnsupportedScript
	}
}
