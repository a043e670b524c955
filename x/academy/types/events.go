package types

// Event types for the academy module
const (
	EventTypeInstructorRegistered = "academy_instructor_registered"
	EventTypeCourseCreated        = "academy_course_created"
	EventTypeMilestoneAdded       = "academy_milestone_added"
	EventTypeEnrolled             = "academy_enrolled"
	EventTypeMilestoneCompleted   = "academy_milestone_completed"
	EventTypeProgressUpdated      = "academy_progress_updated"
	EventTypeCourseCompleted      = "academy_course_completed"
	EventTypeStakesForfeited      = "academy_stakes_forfeited"
	EventTypeRewardsFunded        = "academy_rewards_funded"
	EventTypeCourseToggled        = "academy_course_toggled"
	EventTypePlatformFeeUpdated   = "academy_platform_fee_updated"
	EventTypeFeesWithdrawn        = "academy_fees_withdrawn"
)

// Event attribute keys
const (
	AttributeKeyCourseID       = "course_id"
	AttributeKeyMilestoneID    = "milestone_id"
	AttributeKeyInstructor     = "instructor"
	AttributeKeyStudent        = "student"
	AttributeKeyFunder         = "funder"
	AttributeKeyRecipient      = "recipient"
	AttributeKeyAmount         = "amount"
	AttributeKeyStake          = "stake"
	AttributeKeyReward         = "reward"
	AttributeKeyPayout         = "payout"
	AttributeKeyPlatformFee    = "platform_fee"
	AttributeKeyPlatformFeePct = "platform_fee_pct"
	AttributeKeyProgressPct    = "progress_pct"
	AttributeKeyPoints         = "points"
	AttributeKeyForfeitedCount = "forfeited_count"
	AttributeKeyIsActive       = "is_active"
	AttributeKeyRewardPool     = "reward_pool"
	AttributeKeyBlockHeight    = "block_height"
)
