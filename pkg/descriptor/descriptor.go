// Package descriptor implements a minimal output-descriptor engine for
// single-key spending templates (pkh, wpkh, sh(wpkh)), with enough parsing
// support for script descriptors (sh, wsh, multi) to recognize and re-render
// them.
package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrRangedDescriptor ...
	ErrRangedDescriptor = errors.New("descriptor is ranged, derive an index first")
	// ErrNotRangedDescriptor ...
	ErrNotRangedDescriptor = errors.New("descriptor has no wildcard to derive")
	// ErrUnsupportedScript ...
	ErrUnsupportedScript = errors.New("no address form for this descriptor type")
)

// Descriptor is a parsed output descriptor expression.
type Descriptor interface {
	// String renders the descriptor back to its canonical string form.
	String() string
}

// Pkh is a pay-to-pubkey-hash descriptor.
type Pkh struct {
	Key Key
}

func (d *Pkh) String() string {
	return fmt.Sprintf("pkh(%s)", d.Key)
}

// Wpkh is a pay-to-witness-pubkey-hash descriptor.
type Wpkh struct {
	Key Key
}

func (d *Wpkh) String() string {
	return fmt.Sprintf("wpkh(%s)", d.Key)
}

// Sh wraps an inner descriptor in pay-to-script-hash.
type Sh struct {
	Inner Descriptor
}

func (d *Sh) String() string {
	return fmt.Sprintf("sh(%s)", d.Inner)
}

// Wsh wraps an inner descriptor in pay-to-witness-script-hash.
type Wsh struct {
	Inner Descriptor
}

func (d *Wsh) String() string {
	return fmt.Sprintf("wsh(%s)", d.Inner)
}

// Multi is a k-of-n multisig script descriptor.
type Multi struct {
	Threshold int
	Keys      []Key
}

func (d *Multi) String() string {
	elems := make([]string, 0, len(d.Keys)+1)
	elems = append(elems, strconv.Itoa(d.Threshold))
	for _, key := range d.Keys {
		elems = append(elems, key.String())
	}
	return fmt.Sprintf("multi(%s)", strings.Join(elems, ","))
}

// Derive resolves the range wildcard of a single-key descriptor with the
// given child index, returning a concrete (non-ranged) descriptor.
func Derive(desc Descriptor, index uint32) (Descriptor, error) {
	switch d := desc.(type) {
	case *Pkh:
		key, err := deriveKey(d.Key, index)
		if err != nil {
			return nil, err
		}
		return &Pkh{key}, nil
	case *Wpkh:
		key, err := deriveKey(d.Key, index)
		if err != nil {
			return nil, err
		}
		return &Wpkh{key}, nil
	case *Sh:
		inner, err := Derive(d.Inner, index)
		if err != nil {
			return nil, err
		}
		return &Sh{inner}, nil
	case *Wsh:
		inner, err := Derive(d.Inner, index)
		if err != nil {
			return nil, err
		}
		return &Wsh{inner}, nil
	default:
		return nil, ErrUnsupportedScript
	}
}

func deriveKey(key Key, index uint32) (Key, error) {
	xkey, ok := key.(*XPubKey)
	if !ok || !xkey.Wildcard {
		return nil, ErrNotRangedDescriptor
	}
	return &XPubKey{
		Origin:   xkey.Origin,
		XPub:     xkey.XPub,
		Path:     xkey.Path.Child(index),
		Wildcard: false,
	}, nil
}
