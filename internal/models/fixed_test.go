package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUnits(t *testing.T) {
	tests := []struct {
		in    string
		scale int32
		want  int64
	}{
		{"1234567890123456.78", MoneyScale, 123456789012345678},
		{"0.005", MoneyScale, 1},
		{"-0.005", MoneyScale, -1},
		{"46.6666", LitersScale, 46667},
		{"1.5", PriceScale, 15000},
		{"0", MoneyScale, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToUnits(decimal.RequireFromString(tt.in), tt.scale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, FromUnits(got, tt.scale).Equal(decimal.RequireFromString(tt.in).Round(tt.scale)))
		})
	}
}

func TestToUnits_Overflow(t *testing.T) {
	_, err := ToUnits(decimal.New(math.MaxInt64, 0), MoneyScale)
	assert.ErrorIs(t, err, ErrFixedOverflow)

	largest := FromUnits(math.MaxInt64, MoneyScale)
	got, err := ToUnits(largest, MoneyScale)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}
