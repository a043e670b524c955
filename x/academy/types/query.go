package types

import (
	"context"

	"cosmossdk.io/math"
)

type QueryCourseRequest struct {
	CourseId uint64 `json:"course_id"`
}

type QueryCourseResponse struct {
	Course Course `json:"course"`
}

type QueryEnrollmentRequest struct {
	CourseId uint64 `json:"course_id"`
	Student  string `json:"student"`
}

type QueryEnrollmentResponse struct {
	Enrollment Enrollment `json:"enrollment"`
}

type QueryCourseEnrollmentsRequest struct {
	CourseId uint64 `json:"course_id"`
}

type QueryCourseEnrollmentsResponse struct {
	Enrollments []Enrollment `json:"enrollments"`
}

type QueryInstructorRequest struct {
	Address string `json:"address"`
}

type QueryInstructorResponse struct {
	Profile InstructorProfile `json:"profile"`
}

type QueryMilestoneRequest struct {
	CourseId    uint64 `json:"course_id"`
	MilestoneId uint64 `json:"milestone_id"`
}

type QueryMilestoneResponse struct {
	Milestone Milestone `json:"milestone"`
}

type QueryMilestoneCompletionRequest struct {
	CourseId    uint64 `json:"course_id"`
	Student     string `json:"student"`
	MilestoneId uint64 `json:"milestone_id"`
}

type QueryMilestoneCompletionResponse struct {
	Completion MilestoneCompletion `json:"completion"`
}

type QueryNextCourseIdRequest struct{}

type QueryNextCourseIdResponse struct {
	NextCourseId uint64 `json:"next_course_id"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryCustodyRequest struct{}

// QueryCustodyResponse breaks the module account balance down by obligation.
type QueryCustodyResponse struct {
	Balance             math.Int `json:"balance"`
	EscrowedStakes      math.Int `json:"escrowed_stakes"`
	RewardPools         math.Int `json:"reward_pools"`
	AccruedPlatformFees math.Int `json:"accrued_platform_fees"`
}

type QueryBalanceRequest struct {
	Address string `json:"address"`
}

type QueryBalanceResponse struct {
	Address string   `json:"address"`
	Denom   string   `json:"denom"`
	Amount  math.Int `json:"amount"`
}

// QueryServer is the academy read service. Lookups of absent records return
// ErrCourseNotFound, ErrNotEnrolled or ErrMilestoneNotFound wrapped with the key.
type QueryServer interface {
	Course(context.Context, *QueryCourseRequest) (*QueryCourseResponse, error)
	Enrollment(context.Context, *QueryEnrollmentRequest) (*QueryEnrollmentResponse, error)
	CourseEnrollments(context.Context, *QueryCourseEnrollmentsRequest) (*QueryCourseEnrollmentsResponse, error)
	Instructor(context.Context, *QueryInstructorRequest) (*QueryInstructorResponse, error)
	Milestone(context.Context, *QueryMilestoneRequest) (*QueryMilestoneResponse, error)
	MilestoneCompletion(context.Context, *QueryMilestoneCompletionRequest) (*QueryMilestoneCompletionResponse, error)
	NextCourseId(context.Context, *QueryNextCourseIdRequest) (*QueryNextCourseIdResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Custody(context.Context, *QueryCustodyRequest) (*QueryCustodyResponse, error)
	Balance(context.Context, *QueryBalanceRequest) (*QueryBalanceResponse, error)
}
