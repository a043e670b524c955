package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

var _ types.QueryServer = queryServer{}

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the academy QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return queryServer{Keeper: keeper}
}

func (qs queryServer) Course(ctx context.Context, req *types.QueryCourseRequest) (*types.QueryCourseResponse, error) {
	course, found := qs.GetCourse(ctx, req.CourseId)
	if !found {
		return nil, types.ErrCourseNotFound.Wrapf("course %d", req.CourseId)
	}
	return &types.QueryCourseResponse{Course: course}, nil
}

func (qs queryServer) Enrollment(ctx context.Context, req *types.QueryEnrollmentRequest) (*types.QueryEnrollmentResponse, error) {
	student, err := sdk.AccAddressFromBech32(req.Student)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("student: %v", err)
	}
	enrollment, found := qs.GetEnrollment(ctx, req.CourseId, student)
	if !found {
		return nil, types.ErrNotEnrolled.Wrapf("course %d, student %s", req.CourseId, req.Student)
	}
	return &types.QueryEnrollmentResponse{Enrollment: enrollment}, nil
}

func (qs queryServer) CourseEnrollments(ctx context.Context, req *types.QueryCourseEnrollmentsRequest) (*types.QueryCourseEnrollmentsResponse, error) {
	if _, found := qs.GetCourse(ctx, req.CourseId); !found {
		return nil, types.ErrCourseNotFound.Wrapf("course %d", req.CourseId)
	}
	return &types.QueryCourseEnrollmentsResponse{Enrollments: qs.GetCourseEnrollments(ctx, req.CourseId)}, nil
}

func (qs queryServer) Instructor(ctx context.Context, req *types.QueryInstructorRequest) (*types.QueryInstructorResponse, error) {
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("instructor: %v", err)
	}
	profile, found := qs.GetInstructor(ctx, addr)
	if !found {
		return nil, types.ErrUnknownInstructor.Wrapf("instructor %s", req.Address)
	}
	return &types.QueryInstructorResponse{Profile: profile}, nil
}

func (qs queryServer) Milestone(ctx context.Context, req *types.QueryMilestoneRequest) (*types.QueryMilestoneResponse, error) {
	milestone, found := qs.GetMilestone(ctx, req.CourseId, req.MilestoneId)
	if !found {
		return nil, types.ErrMilestoneNotFound.Wrapf("course %d, milestone %d", req.CourseId, req.MilestoneId)
	}
	return &types.QueryMilestoneResponse{Milestone: milestone}, nil
}

func (qs queryServer) MilestoneCompletion(ctx context.Context, req *types.QueryMilestoneCompletionRequest) (*types.QueryMilestoneCompletionResponse, error) {
	student, err := sdk.AccAddressFromBech32(req.Student)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("student: %v", err)
	}
	completion, found := qs.GetMilestoneCompletion(ctx, req.CourseId, student, req.MilestoneId)
	if !found {
		return nil, types.ErrMilestoneNotFound.Wrapf("no completion of milestone %d by %s", req.MilestoneId, req.Student)
	}
	return &types.QueryMilestoneCompletionResponse{Completion: completion}, nil
}

func (qs queryServer) NextCourseId(ctx context.Context, _ *types.QueryNextCourseIdRequest) (*types.QueryNextCourseIdResponse, error) {
	return &types.QueryNextCourseIdResponse{NextCourseId: qs.GetNextCourseID(ctx)}, nil
}

func (qs queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	return &types.QueryParamsResponse{Params: qs.GetParams(ctx)}, nil
}

func (qs queryServer) Custody(ctx context.Context, _ *types.QueryCustodyRequest) (*types.QueryCustodyResponse, error) {
	stakes, pools := qs.custodyObligations(ctx)
	return &types.QueryCustodyResponse{
		Balance:             qs.CustodyBalance(ctx),
		EscrowedStakes:      stakes,
		RewardPools:         pools,
		AccruedPlatformFees: qs.GetAccruedPlatformFees(ctx),
	}, nil
}

func (qs queryServer) Balance(ctx context.Context, req *types.QueryBalanceRequest) (*types.QueryBalanceResponse, error) {
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("address: %v", err)
	}
	denom := qs.GetParams(ctx).Denom
	return &types.QueryBalanceResponse{
		Address: req.Address,
		Denom:   denom,
		Amount:  qs.bankKeeper.GetBalance(ctx, addr, denom).Amount,
	}, nil
}

// custodyObligations sums the open stakes and the reward pools held in custody.
func (k Keeper) custodyObligations(ctx context.Context) (stakes, pools math.Int) {
	stakes, pools = math.ZeroInt(), math.ZeroInt()
	k.IterateCourses(ctx, func(c types.Course) bool {
		if !c.RewardPool.IsNil() {
			pools = pools.Add(c.RewardPool)
		}
		return false
	})
	for _, e := range k.GetAllEnrollments(ctx) {
		if e.Status == types.EnrollmentStatusEnrolled {
			stakes = stakes.Add(e.StakePaid)
		}
	}
	return stakes, pools
}
