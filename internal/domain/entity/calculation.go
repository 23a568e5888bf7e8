package entity

import (
	"errors"
	"math"
	"time"
)

// Calculation is a stored decay calculation
type Calculation struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Mode          string    `json:"mode"`
	InitialAmount float64   `json:"initial_amount"`
	Rate          float64   `json:"rate"`
	TargetDate    time.Time `json:"target_date"`
	Periods       int64     `json:"periods"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// Quote is a calculation result that is not persisted
type Quote struct {
	Mode          string    `json:"mode"`
	InitialAmount float64   `json:"initial_amount"`
	Rate          float64   `json:"rate"`
	TargetDate    time.Time `json:"target_date"`
	Periods       int64     `json:"periods"`
	Amount        float64   `json:"amount"`
}

// BlockReward is the decayed reward paid for a single farm block
type BlockReward struct {
	Index   uint32 `json:"index"`
	Periods int64  `json:"periods"`
	Reward  string `json:"reward"`
}

// ValidateInputs checks the caller supplied parameters of a calculation
func ValidateInputs(initialAmount, rate float64) error {
	if math.IsNaN(initialAmount) || math.IsInf(initialAmount, 0) || initialAmount < 0 {
		return errors.New("initial amount must be a non-negative number")
	}

	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return errors.New("rate must be between 0 and 1")
	}

	return nil
}

// Validate ensures the quote is well formed and its result is representable
func (q *Quote) Validate() error {
	if err := ValidateInputs(q.InitialAmount, q.Rate); err != nil {
		return err
	}

	if math.IsNaN(q.Amount) || math.IsInf(q.Amount, 0) {
		return errors.New("amount is not a finite number")
	}

	return nil
}

// Validate ensures the calculation meets all requirements before it is stored
func (c *Calculation) Validate() error {
	if c.ID == "" {
		return errors.New("id must not be empty")
	}

	q := c.Quote()
	return q.Validate()
}

// Quote returns the result part of the calculation
func (c *Calculation) Quote() Quote {
	return Quote{
		Mode:          c.Mode,
		InitialAmount: c.InitialAmount,
		Rate:          c.Rate,
		TargetDate:    c.TargetDate,
		Periods:       c.Periods,
		Amount:        c.Amount,
	}
}
