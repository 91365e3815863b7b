package xpub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwt-network/bwt-daemon/pkg/descriptor"
)

const (
	testXPub = "xpub661MyMwAqRbcFLqTBCNzuoj4FYE1xRxmCjrSWC6LUjKHo46Du4NacKgxdrJPWhzLjkPsXqnjAUwn1raMSWfxWZKysPoBNQMZMs8b5JM8egC"
	testYPub = "ypub6QqdH2c5z7966e2a1ZAd7tpZRWNTu3xG7rNfHazDrjhAr9uT9iY9EPM6f4FyWceG9PWgHKPHd9JKu9BvAD5yJo1ajjVbxKB3dbCETvZ3Jzw"
	testZPub = "zpub6jftahH18ngZwwDgquxFKyv4bUWuqfwm2xtt4yt7Ek53uFigQNhhrT1EgGDZWXJBZ2dV2nyr5oesnRoUsuVz72hBc5C2YDzXuKFsrTu7JHp"
	testTPub = "tpubD6NzVbkrYhZ4XmWGpWP6vdR1uS1NVvgUgM3wFUzCywE8nupMQpmvBGBYzjcZfHX46xSCpBxmFSswJzE98vsL48hW5HsampQhRBnKUHin36y"
	testHex  = "021ebb0d349ccd72d3648c944c84e38345cf8d200dcf216cb624a0b869bbf974f0"
)

func TestVersionTable(t *testing.T) {
	for _, entry := range versionTable {
		network, scriptType, err := lookupVersion(entry.version[:])
		require.NoError(t, err)
		assert.Equal(t, entry.network, network)
		assert.Equal(t, entry.scriptType, scriptType)

		prefix, err := tagPrefix(entry.network, entry.scriptType)
		require.NoError(t, err)
		assert.Equal(t, entry.version, prefix)
	}

	// regtest maps onto the testnet family
	for _, scriptType := range []ScriptType{P2PKH, P2WPKH, P2SHP2WPKH} {
		regtest, err := tagPrefix(Regtest, scriptType)
		require.NoError(t, err)
		testnet, err := tagPrefix(Testnet, scriptType)
		require.NoError(t, err)
		assert.Equal(t, testnet, regtest)
	}

	_, _, err := lookupVersion([]byte{0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrUnknownVersion)

	assert.Equal(t, [4]byte{0x04, 0x88, 0xB2, 0x1E}, canonicalPrefix(Mainnet))
	assert.Equal(t, [4]byte{0x04, 0x35, 0x87, 0xCF}, canonicalPrefix(Testnet))
	assert.Equal(t, [4]byte{0x04, 0x35, 0x87, 0xCF}, canonicalPrefix(Regtest))
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		inp        string
		scriptType ScriptType
		network    Network
	}{
		{testXPub, P2PKH, Mainnet},
		{testYPub, P2SHP2WPKH, Mainnet},
		{testZPub, P2WPKH, Mainnet},
		{testTPub, P2PKH, Testnet},
	}
	for _, tt := range tests {
		key, err := Parse(tt.inp)
		require.NoError(t, err, tt.inp)
		assert.Equal(t, tt.scriptType, key.ScriptType())
		assert.Equal(t, tt.network, key.Network())

		// serialization restores the original tagged family, not merely the
		// canonical one
		assert.Equal(t, tt.inp, key.String())
	}

	// the ypub and zpub vectors tag the same key material as the xpub one
	for _, inp := range []string{testYPub, testZPub} {
		key, err := Parse(inp)
		require.NoError(t, err)
		assert.Equal(t, testXPub, key.Key().String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		inp  string
		err  error
	}{
		{"empty", "", ErrInvalidEncoding},
		{"bad alphabet", "not-a-key", ErrInvalidEncoding},
		{"bad checksum", testXPub[:len(testXPub)-1] + "D", ErrInvalidEncoding},
		{"payload too short", checkEncode(make([]byte, 77)), ErrInvalidLength},
		{"payload too long", checkEncode(make([]byte, 79)), ErrInvalidLength},
		{"zero version", checkEncode(make([]byte, 78)), ErrUnknownVersion},
	}
	for _, tt := range tests {
		_, err := Parse(tt.inp)
		assert.ErrorIs(t, err, tt.err, tt.name)
	}
}

// Test xyzpub -> descriptor -> xyzpub roundtrip
func TestXyzPubToDescriptor(t *testing.T) {
	tests := []struct {
		inp          string
		expectedDesc string
	}{
		// Standard BIP32 xpub, uses p2pkh
		{testXPub, "pkh(" + testXPub + "/*)"},
		// SLIP132 ypub, uses p2sh-p2wpkh
		{testYPub, "sh(wpkh(" + testXPub + "/*))"},
		// SLIP132 zpub, uses p2wpkh
		{testZPub, "wpkh(" + testXPub + "/*)"},
	}
	for _, tt := range tests {
		key, err := Parse(tt.inp)
		require.NoError(t, err, tt.inp)

		desc := key.Descriptor(nil)
		assert.Equal(t, tt.expectedDesc, desc.String())

		roundTripped, ok := FromDescriptor(desc)
		require.True(t, ok, tt.inp)
		assert.Equal(t, key.Key().String(), roundTripped.Key().String())
		assert.Equal(t, key.ScriptType(), roundTripped.ScriptType())

		address, err := key.DeriveAddress(9, Mainnet)
		require.NoError(t, err)

		derived, err := descriptor.Derive(desc, 9)
		require.NoError(t, err)
		descAddress, err := descriptor.Address(derived, Mainnet.ChainParams())
		require.NoError(t, err)
		assert.Equal(t, descAddress.EncodeAddress(), address.EncodeAddress())

		rtAddress, err := roundTripped.DeriveAddress(9, Mainnet)
		require.NoError(t, err)
		assert.Equal(t, address.EncodeAddress(), rtAddress.EncodeAddress())
	}
}

// Test descriptor -> xyzpub -> descriptor roundtrip
func TestDescriptorToXyzPub(t *testing.T) {
	tests := []struct {
		desc       string
		scriptType ScriptType
	}{
		{"pkh(" + testXPub + "/*)", P2PKH},
		{"wpkh(" + testXPub + "/*)", P2WPKH},
		{"sh(wpkh(" + testXPub + "/*))", P2SHP2WPKH},
	}
	for _, tt := range tests {
		desc, err := descriptor.Parse(tt.desc)
		require.NoError(t, err)

		key, ok := FromDescriptor(desc)
		require.True(t, ok, tt.desc)
		assert.Equal(t, testXPub, key.Key().String())
		assert.Equal(t, tt.scriptType, key.ScriptType())
		assert.Equal(t, Mainnet, key.Network())

		// eligible descriptors round-trip to the exact same string
		assert.Equal(t, tt.desc, key.Descriptor(nil).String())

		address, err := descriptor.Address(mustDerive(t, desc, 9), Mainnet.ChainParams())
		require.NoError(t, err)
		keyAddress, err := key.DeriveAddress(9, Mainnet)
		require.NoError(t, err)
		assert.Equal(t, address.EncodeAddress(), keyAddress.EncodeAddress())
	}
}

func TestFromDescriptorIneligible(t *testing.T) {
	tests := []string{
		// extra derivation step below the key
		"wpkh(" + testXPub + "/0/*)",
		// multi-key script
		"wsh(multi(1," + testTPub + "/*))",
		// non-ranged, no wildcard to optimize
		"pkh(" + testTPub + ")",
		// bare public key
		"pkh(" + testHex + ")",
	}
	for _, str := range tests {
		desc, err := descriptor.Parse(str)
		require.NoError(t, err, str)

		_, ok := FromDescriptor(desc)
		assert.False(t, ok, str)
	}
}

func TestMatchesNetwork(t *testing.T) {
	mainnet, err := Parse(testXPub)
	require.NoError(t, err)
	testnet, err := Parse(testTPub)
	require.NoError(t, err)

	assert.True(t, mainnet.MatchesNetwork(Mainnet))
	assert.False(t, mainnet.MatchesNetwork(Testnet))
	assert.False(t, mainnet.MatchesNetwork(Regtest))

	assert.True(t, testnet.MatchesNetwork(Testnet))
	assert.True(t, testnet.MatchesNetwork(Regtest))
	assert.False(t, testnet.MatchesNetwork(Mainnet))
}

func TestTextMarshalling(t *testing.T) {
	var decoded struct {
		Key *XyzPubKey `json:"key"`
	}
	err := json.Unmarshal([]byte(`{"key":"`+testYPub+`"}`), &decoded)
	require.NoError(t, err)
	assert.Equal(t, P2SHP2WPKH, decoded.Key.ScriptType())
	assert.Equal(t, testYPub, decoded.Key.String())

	encoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"`+testYPub+`"}`, string(encoded))

	err = json.Unmarshal([]byte(`{"key":"garbage"}`), &decoded)
	assert.Error(t, err)
}

func mustDerive(t *testing.T, desc descriptor.Descriptor, index uint32) descriptor.Descriptor {
	derived, err := descriptor.Derive(desc, index)
	require.NoError(t, err)
	return derived
}
