package decay

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFixedAmount(t *testing.T) {
	rate := decimal.RequireFromString("0.05")

	t.Run("reference example is exact", func(t *testing.T) {
		target, err := ParseDate("2025-04-30")
		assert.NoError(t, err)

		got, periods := FixedAmountAt(decimal.NewFromInt(1000), rate, target)
		assert.Equal(t, int64(2), periods)
		assert.Equal(t, "902.50", got.StringFixed(2))
		assert.True(t, got.Equal(decimal.RequireFromString("902.5")))
	})

	t.Run("floors every period", func(t *testing.T) {
		// 1 * 0.95 = 0.95, 0.95 * 0.95 = 0.9025 -> 0.90 at two places, 0.90 * 0.95 = 0.855 -> 0.85
		got := FixedAmount(decimal.NewFromInt(1), rate, 3, 2)
		assert.Equal(t, "0.85", got.String())
	})

	t.Run("non-positive periods saturate", func(t *testing.T) {
		initial := decimal.NewFromInt(1000)
		assert.True(t, FixedAmount(initial, rate, 0, FixedPlaces).Equal(initial))
		assert.True(t, FixedAmount(initial, rate, -4, FixedPlaces).Equal(initial))
	})

	t.Run("zero rate", func(t *testing.T) {
		initial := decimal.NewFromInt(1000)
		assert.True(t, FixedAmount(initial, decimal.Zero, 1_000_000, FixedPlaces).Equal(initial))
	})

	t.Run("full rate", func(t *testing.T) {
		got := FixedAmount(decimal.NewFromInt(1000), decimal.NewFromInt(1), 5, FixedPlaces)
		assert.True(t, got.IsZero())
	})
}

func TestBlockPeriods(t *testing.T) {
	assert.Equal(t, int64(0), BlockPeriods(0))
	assert.Equal(t, int64(0), BlockPeriods(GenesisBlock))
	assert.Equal(t, int64(0), BlockPeriods(GenesisBlock+BlocksPerMonth-1))
	assert.Equal(t, int64(1), BlockPeriods(GenesisBlock+BlocksPerMonth))
	assert.Equal(t, int64(3), BlockPeriods(GenesisBlock+3*BlocksPerMonth+17))
}

func TestBlockRewardAt(t *testing.T) {
	assert.Equal(t, 8640, BlocksPerMonth)
	assert.Equal(t, "25050000000", BlockReward.String())

	tests := []struct {
		name    string
		index   uint32
		periods int64
		reward  string
	}{
		{"before genesis", 100, 0, "25050000000"},
		{"first month", GenesisBlock + 10, 0, "25050000000"},
		{"second month", GenesisBlock + BlocksPerMonth, 1, "23797500000"},
		{"third month", GenesisBlock + 2*BlocksPerMonth, 2, "22607625000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward, periods := BlockRewardAt(tt.index)
			assert.Equal(t, tt.periods, periods)
			assert.Equal(t, tt.reward, reward.String())
		})
	}

	t.Run("monotonically decreasing", func(t *testing.T) {
		prev, _ := BlockRewardAt(GenesisBlock)
		for month := uint32(1); month <= 24; month++ {
			cur, _ := BlockRewardAt(GenesisBlock + month*BlocksPerMonth)
			assert.True(t, cur.LessThan(prev), "month %d", month)
			prev = cur
		}
	})
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeFloat, m)

	m, err = ParseMode("fixed")
	assert.NoError(t, err)
	assert.Equal(t, ModeFixed, m)

	_, err = ParseMode("bogus")
	assert.Error(t, err)
}
