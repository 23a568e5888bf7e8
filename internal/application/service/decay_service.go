// Package service implements the decay use cases on top of the domain packages.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/emission-decay/internal/domain/clock"
	"github.com/damon-houk/emission-decay/internal/domain/decay"
	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/domain/repository"
	"github.com/damon-houk/emission-decay/internal/infrastructure/cache"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/damon-houk/emission-decay/internal/infrastructure/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput wraps every error caused by caller supplied parameters
var ErrInvalidInput = errors.New("invalid input")

// Source of calculations created through the HTTP API
const SourceAPI = "api"

// QuoteRequest holds the parameters of a decay calculation
type QuoteRequest struct {
	InitialAmount float64
	Rate          float64
	TargetDate    string
	Mode          string
}

// DecayService handles business logic for decay calculations
type DecayService struct {
	repo   repository.CalculationRepository
	quotes repository.QuoteCache
	clock  clock.Clock
	logger logger.Logger
}

// NewDecayService creates a new decay service. quotes may be nil to disable caching.
func NewDecayService(repo repository.CalculationRepository, quotes repository.QuoteCache, clk clock.Clock, log logger.Logger) *DecayService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DecayService{
		repo:   repo,
		quotes: quotes,
		clock:  clk,
		logger: log,
	}
}

// Quote computes the decayed amount without storing it
func (s *DecayService) Quote(ctx context.Context, req QuoteRequest) (*entity.Quote, error) {
	requestID := middleware.GetRequestID(ctx)

	mode, err := decay.ParseMode(req.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := entity.ValidateInputs(req.InitialAmount, req.Rate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	target, err := decay.ParseDate(req.TargetDate)
	if err != nil {
		s.logger.Warn("Rejected target date", map[string]interface{}{
			"request_id":  requestID,
			"target_date": req.TargetDate,
		})
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	key := cache.QuoteKey(string(mode), req.InitialAmount, req.Rate, target)
	if s.quotes != nil {
		if quote, ok := s.quotes.Get(ctx, key); ok {
			s.logger.Debug("Quote served from cache", map[string]interface{}{
				"request_id": requestID,
				"key":        key,
			})
			return quote, nil
		}
	}

	quote := compute(mode, req.InitialAmount, req.Rate, target)
	if err := quote.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.logger.Debug("Quote computed", map[string]interface{}{
		"request_id": requestID,
		"mode":       quote.Mode,
		"periods":    quote.Periods,
		"amount":     quote.Amount,
	})

	if s.quotes != nil {
		if err := s.quotes.Put(ctx, key, quote); err != nil {
			s.logger.Warn("Failed to cache quote", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
	}

	return quote, nil
}

// CreateCalculation computes a quote and stores it as a calculation
func (s *DecayService) CreateCalculation(ctx context.Context, req QuoteRequest, source string) (*entity.Calculation, error) {
	quote, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	calc := &entity.Calculation{
		ID:            uuid.New().String(),
		Source:        source,
		Mode:          quote.Mode,
		InitialAmount: quote.InitialAmount,
		Rate:          quote.Rate,
		TargetDate:    quote.TargetDate,
		Periods:       quote.Periods,
		Amount:        quote.Amount,
		CreatedAt:     s.clock.Now(),
	}

	if err := calc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if _, err := s.repo.Store(ctx, calc); err != nil {
		s.logger.Error("Failed to store calculation", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"id":         calc.ID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Calculation stored", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         calc.ID,
		"source":     source,
		"amount":     calc.Amount,
	})

	return calc, nil
}

// GetCalculation retrieves a calculation by ID
func (s *DecayService) GetCalculation(ctx context.Context, id string) (*entity.Calculation, error) {
	return s.repo.FindByID(ctx, id)
}

// ListCalculations returns every stored calculation, oldest first
func (s *DecayService) ListCalculations(ctx context.Context) ([]*entity.Calculation, error) {
	return s.repo.List(ctx)
}

// BlockReward returns the decayed farm reward for a block index
func (s *DecayService) BlockReward(_ context.Context, index uint32) *entity.BlockReward {
	reward, periods := decay.BlockRewardAt(index)
	return &entity.BlockReward{
		Index:   index,
		Periods: periods,
		Reward:  reward.String(),
	}
}

func compute(mode decay.Mode, initialAmount, rate float64, target time.Time) *entity.Quote {
	quote := &entity.Quote{
		Mode:          string(mode),
		InitialAmount: initialAmount,
		Rate:          rate,
		TargetDate:    target,
	}

	switch mode {
	case decay.ModeFixed:
		amount, periods := decay.FixedAmountAt(decimal.NewFromFloat(initialAmount), decimal.NewFromFloat(rate), target)
		quote.Amount = amount.InexactFloat64()
		quote.Periods = periods
	default:
		quote.Periods = decay.ElapsedPeriods(target)
		quote.Amount = decay.AmountAt(initialAmount, rate, target)
	}

	return quote
}
