package bitcoind

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescanSinceUnmarshal(t *testing.T) {
	tests := []struct {
		inp    string
		output RescanSince
		ok     bool
	}{
		{`"now"`, RescanNow, true},
		{`0`, RescanSinceTime(0), true},
		{`1600000000`, RescanSinceTime(1600000000), true},
		{`"later"`, RescanSince{}, false},
		{`"1600000000"`, RescanSince{}, false},
		{`-1`, RescanSince{}, false},
		{`1.5`, RescanSince{}, false},
		{`true`, RescanSince{}, false},
		{`["now"]`, RescanSince{}, false},
		{`{}`, RescanSince{}, false},
	}
	for _, tt := range tests {
		var rescan RescanSince
		err := json.Unmarshal([]byte(tt.inp), &rescan)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidRescanSince, tt.inp)
			continue
		}
		require.NoError(t, err, tt.inp)
		assert.Equal(t, tt.output, rescan)
	}
}

func TestParseRescanSince(t *testing.T) {
	rescan, err := ParseRescanSince("now")
	require.NoError(t, err)
	assert.True(t, rescan.Now)

	rescan, err = ParseRescanSince("1600000000")
	require.NoError(t, err)
	assert.Equal(t, RescanSinceTime(1600000000), rescan)

	for _, inp := range []string{"", "later", "-1", "1.5", "Now"} {
		_, err := ParseRescanSince(inp)
		assert.ErrorIs(t, err, ErrInvalidRescanSince, inp)
	}
}

func TestRescanSinceMarshal(t *testing.T) {
	encoded, err := json.Marshal(RescanNow)
	require.NoError(t, err)
	assert.Equal(t, `"now"`, string(encoded))

	encoded, err = json.Marshal(RescanSinceTime(1600000000))
	require.NoError(t, err)
	assert.Equal(t, `1600000000`, string(encoded))
}

func TestRescanSinceRoundTrip(t *testing.T) {
	for _, rescan := range []RescanSince{RescanNow, RescanSinceTime(1234)} {
		encoded, err := json.Marshal(rescan)
		require.NoError(t, err)

		var decoded RescanSince
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, rescan, decoded)
	}
}
