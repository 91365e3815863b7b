package descriptor

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	desc, err := Parse("sh(wpkh(" + testXPub + "/*))")
	require.NoError(t, err)

	derived, err := Derive(desc, 9)
	require.NoError(t, err)
	assert.Equal(t, "sh(wpkh("+testXPub+"/9))", derived.String())

	// the original descriptor keeps its wildcard
	assert.Equal(t, "sh(wpkh("+testXPub+"/*))", desc.String())

	// a concrete descriptor has nothing left to derive
	_, err = Derive(derived, 0)
	assert.ErrorIs(t, err, ErrNotRangedDescriptor)
}

func TestDeriveNonRanged(t *testing.T) {
	desc, err := Parse("pkh(" + testXPub + ")")
	require.NoError(t, err)

	_, err = Derive(desc, 0)
	assert.ErrorIs(t, err, ErrNotRangedDescriptor)
}

func TestAddress(t *testing.T) {
	tests := []struct {
		desc   string
		prefix string
	}{
		{"pkh(" + testXPub + "/*)", "1"},
		{"wpkh(" + testXPub + "/*)", "bc1q"},
		{"sh(wpkh(" + testXPub + "/*))", "3"},
	}
	for _, tt := range tests {
		desc, err := Parse(tt.desc)
		require.NoError(t, err)

		derived, err := Derive(desc, 0)
		require.NoError(t, err)

		addr, err := Address(derived, &chaincfg.MainNetParams)
		require.NoError(t, err, tt.desc)
		assert.True(t, strings.HasPrefix(addr.EncodeAddress(), tt.prefix), tt.desc)

		// deriving a different index yields a different address
		other, err := Derive(desc, 1)
		require.NoError(t, err)
		otherAddr, err := Address(other, &chaincfg.MainNetParams)
		require.NoError(t, err)
		assert.NotEqual(t, addr.EncodeAddress(), otherAddr.EncodeAddress())
	}
}

func TestAddressRanged(t *testing.T) {
	desc, err := Parse("wpkh(" + testXPub + "/*)")
	require.NoError(t, err)

	_, err = Address(desc, &chaincfg.MainNetParams)
	assert.ErrorIs(t, err, ErrRangedDescriptor)
}

func TestAddressUnsupported(t *testing.T) {
	tests := []string{
		"wsh(multi(1," + testTPub + "/*))",
		"sh(multi(1," + testHex + "))",
	}
	for _, str := range tests {
		desc, err := Parse(str)
		require.NoError(t, err)

		_, err = Address(desc, &chaincfg.MainNetParams)
		assert.ErrorIs(t, err, ErrUnsupportedScript, str)
	}
}
