package handler

// CreateCalculationRequest represents the request body for creating a calculation
type CreateCalculationRequest struct {
	InitialAmount float64 `json:"initial_amount"`
	Rate          float64 `json:"rate"`
	TargetDate    string  `json:"target_date"`
	Mode          string  `json:"mode,omitempty"`
}

// QuoteResponse represents the result of a decay calculation
type QuoteResponse struct {
	Mode          string  `json:"mode"`
	InitialAmount float64 `json:"initial_amount"`
	Rate          float64 `json:"rate"`
	TargetDate    string  `json:"target_date"`
	Periods       int64   `json:"periods"`
	Amount        float64 `json:"amount"`
	Formatted     string  `json:"formatted"`
	Line          string  `json:"line"`
}

// CalculationResponse represents a stored calculation
type CalculationResponse struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	QuoteResponse
}

// BlockRewardResponse represents the decayed reward of a farm block
type BlockRewardResponse struct {
	Index   uint32 `json:"index"`
	Periods int64  `json:"periods"`
	Reward  string `json:"reward"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
