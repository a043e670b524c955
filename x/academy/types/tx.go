package types

import (
	"context"

	"cosmossdk.io/math"
)

type MsgRegisterInstructorResponse struct {
	Profile InstructorProfile `json:"profile"`
}

type MsgCreateCourseResponse struct {
	CourseId uint64 `json:"course_id"`
}

type MsgAddMilestoneResponse struct{}

type MsgEnrollResponse struct {
	Enrollment Enrollment `json:"enrollment"`
}

type MsgCompleteMilestoneResponse struct {
	Enrollment Enrollment `json:"enrollment"`
}

type MsgUpdateProgressResponse struct{}

type MsgCompleteCourseResponse struct {
	Receipt SettlementReceipt `json:"receipt"`
}

type MsgClaimForfeitedStakesResponse struct {
	Receipt ForfeitureReceipt `json:"receipt"`
}

type MsgFundCourseRewardsResponse struct {
	RewardPool math.Int `json:"reward_pool"`
}

type MsgToggleCourseStatusResponse struct {
	IsActive bool `json:"is_active"`
}

type MsgSetPlatformFeeResponse struct{}

type MsgWithdrawPlatformFeesResponse struct {
	Amount math.Int `json:"amount"`
}

// MsgServer is the academy transaction service.
type MsgServer interface {
	RegisterInstructor(context.Context, *MsgRegisterInstructor) (*MsgRegisterInstructorResponse, error)
	CreateCourse(context.Context, *MsgCreateCourse) (*MsgCreateCourseResponse, error)
	AddMilestone(context.Context, *MsgAddMilestone) (*MsgAddMilestoneResponse, error)
	Enroll(context.Context, *MsgEnroll) (*MsgEnrollResponse, error)
	CompleteMilestone(context.Context, *MsgCompleteMilestone) (*MsgCompleteMilestoneResponse, error)
	UpdateProgress(context.Context, *MsgUpdateProgress) (*MsgUpdateProgressResponse, error)
	CompleteCourse(context.Context, *MsgCompleteCourse) (*MsgCompleteCourseResponse, error)
	ClaimForfeitedStakes(context.Context, *MsgClaimForfeitedStakes) (*MsgClaimForfeitedStakesResponse, error)
	FundCourseRewards(context.Context, *MsgFundCourseRewards) (*MsgFundCourseRewardsResponse, error)
	ToggleCourseStatus(context.Context, *MsgToggleCourseStatus) (*MsgToggleCourseStatusResponse, error)
	SetPlatformFee(context.Context, *MsgSetPlatformFee) (*MsgSetPlatformFeeResponse, error)
	WithdrawPlatformFees(context.Context, *MsgWithdrawPlatformFees) (*MsgWithdrawPlatformFeesResponse, error)
}
