package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalString(t *testing.T) {
	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
	assert.Equal(t, "HOLD", Hold.String())
	assert.Equal(t, Hold, Signal(0))
}

func TestParseSignal(t *testing.T) {
	for _, s := range []Signal{Buy, Sell, Hold} {
		got, err := ParseSignal(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSignal(" buy ")
	require.NoError(t, err)
	assert.Equal(t, Buy, got)

	_, err = ParseSignal("SHORT")
	assert.Error(t, err)
}
