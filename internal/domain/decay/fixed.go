package decay

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Block reward schedule of the farm contract. Amounts are in stroops (7 decimals).
const (
	BlockInterval  = 5 * time.Minute
	BlocksPerMonth = 24 * 60 / 5 * 30
	GenesisBlock   = 30_558

	// FixedPlaces is the precision the fixed mode floors to after every period.
	FixedPlaces int32 = 7

	// factorPlaces matches a 100% scale of 10^12.
	factorPlaces int32 = 12
)

var (
	// BlockReward is the undecayed reward of one block: 501 per minute over a 5 minute block.
	BlockReward = decimal.NewFromInt(501_0000000 * int64(BlockInterval/time.Second) / 60)

	// DecayRate is the per-month decay of the block reward.
	DecayRate = decimal.RequireFromString("0.05")
)

// Mode selects the arithmetic used for a calculation
type Mode string

const (
	// ModeFloat compounds in float64.
	ModeFloat Mode = "float"
	// ModeFixed compounds in decimal, flooring to FixedPlaces after each period.
	ModeFixed Mode = "fixed"
)

// ParseMode maps a user supplied mode to a Mode; empty means ModeFloat.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFloat:
		return ModeFloat, nil
	case ModeFixed:
		return ModeFixed, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// FixedAmount compounds initial by (1 - rate) for each period, flooring to places
// decimals every step. Non-positive period counts leave initial untouched.
func FixedAmount(initial, rate decimal.Decimal, periods int64, places int32) decimal.Decimal {
	if periods <= 0 {
		return initial
	}

	factor := decimal.NewFromInt(1).Sub(rate)
	if factor.Equal(decimal.NewFromInt(1)) {
		return initial.RoundFloor(places)
	}

	result := initial
	for i := int64(0); i < periods; i++ {
		result = result.Mul(factor).RoundFloor(places)
		if result.IsZero() {
			break
		}
	}
	return result
}

// FixedAmountAt is FixedAmount with the periods elapsed at target.
func FixedAmountAt(initial, rate decimal.Decimal, target time.Time) (decimal.Decimal, int64) {
	periods := ElapsedPeriods(target)
	return FixedAmount(initial, rate, periods, FixedPlaces), periods
}

// BlockPeriods returns the number of whole months elapsed at a block index.
// Blocks before GenesisBlock count as zero.
func BlockPeriods(index uint32) int64 {
	if index <= GenesisBlock {
		return 0
	}
	return int64(index-GenesisBlock) / BlocksPerMonth
}

// BlockRewardAt returns the decayed reward, in whole stroops, for the block at index.
func BlockRewardAt(index uint32) (decimal.Decimal, int64) {
	periods := BlockPeriods(index)
	factor := FixedAmount(decimal.NewFromInt(1), DecayRate, periods, factorPlaces)
	return BlockReward.Mul(factor).Floor(), periods
}
