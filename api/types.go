package api

// ==================== Action Requests ====================

// Amounts are decimal strings of the academy denom.

// RegisterInstructorRequest creates or replaces the caller's profile.
type RegisterInstructorRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// CreateCourseRequest publishes a course owned by the caller.
type CreateCourseRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	StakeAmount      string `json:"stake_amount" binding:"required"`
	RewardAmount     string `json:"reward_amount" binding:"required"`
	DurationBlocks   uint64 `json:"duration_blocks"`
	MinCompletionPct uint32 `json:"min_completion_pct"`
}

// AddMilestoneRequest stores a milestone on a course the caller owns.
type AddMilestoneRequest struct {
	MilestoneId uint64 `json:"milestone_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      uint64 `json:"points"`
	Required    bool   `json:"required"`
}

// UpdateProgressRequest overwrites a student's progress.
type UpdateProgressRequest struct {
	Student     string `json:"student" binding:"required"`
	ProgressPct uint32 `json:"progress_pct"`
}

// FundRewardsRequest adds the caller's funds to a course reward pool.
type FundRewardsRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// SetPlatformFeeRequest updates the platform fee.
type SetPlatformFeeRequest struct {
	PlatformFeePct uint32 `json:"platform_fee_pct"`
}

// WithdrawFeesRequest names the fee recipient; empty means the caller.
type WithdrawFeesRequest struct {
	Recipient string `json:"recipient"`
}

// FaucetRequest mints devnet funds.
type FaucetRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

// ==================== Responses ====================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      uint32 `json:"code"`
	Codespace string `json:"codespace,omitempty"`
	Kind      string `json:"kind"`
}

// StatusResponse describes the runtime.
type StatusResponse struct {
	ChainID string `json:"chain_id"`
	Height  int64  `json:"height"`
}
