package descriptor

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a BIP32 derivation path
// relative to some parent key. Hardened steps carry the hardened bit.
type DerivationPath []uint32

var (
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = fmt.Errorf("path contains empty or malformed steps")
)

// ParseDerivationPath converts a non-empty relative derivation path string
// like "0/1'" to the internal binary representation. Both ' and h mark
// hardened steps.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	elems := strings.Split(strPath, "/")
	if containsEmptyString(elems) {
		return nil, ErrMalformedDerivationPath
	}

	var path DerivationPath
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") || strings.HasSuffix(elem, "h") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(elem[:len(elem)-1])
		}

		// use big int for conversion
		bigval, ok := new(big.Int).SetString(elem, 10)
		if !ok {
			return nil, fmt.Errorf("invalid step '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			return nil, fmt.Errorf("step %v must be in range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical representation,
// hardened steps rendered with a trailing '.
func (path DerivationPath) String() string {
	elems := make([]string, 0, len(path))
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		elem := fmt.Sprintf("%d", component)
		if hardened {
			elem += "'"
		}
		elems = append(elems, elem)
	}
	return strings.Join(elems, "/")
}

// Child returns a new path with one more step appended.
func (path DerivationPath) Child(childNum uint32) DerivationPath {
	return path.Extend(DerivationPath{childNum})
}

// Extend returns a new path with the given suffix appended.
func (path DerivationPath) Extend(suffix DerivationPath) DerivationPath {
	extended := make(DerivationPath, 0, len(path)+len(suffix))
	extended = append(extended, path...)
	extended = append(extended, suffix...)
	return extended
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
