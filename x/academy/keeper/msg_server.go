package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the academy MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) RegisterInstructor(goCtx context.Context, msg *types.MsgRegisterInstructor) (*types.MsgRegisterInstructorResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	instructor := sdk.MustAccAddressFromBech32(msg.Instructor)

	profile, err := ms.Keeper.RegisterInstructorProfile(goCtx, instructor, msg.Name, msg.Bio)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterInstructorResponse{Profile: profile}, nil
}

func (ms msgServer) CreateCourse(goCtx context.Context, msg *types.MsgCreateCourse) (*types.MsgCreateCourseResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	instructor := sdk.MustAccAddressFromBech32(msg.Instructor)

	courseID, err := ms.Keeper.CreateCourse(goCtx, instructor, msg.Title, msg.Description,
		msg.StakeAmount, msg.RewardAmount, msg.DurationBlocks, msg.MinCompletionPct)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateCourseResponse{CourseId: courseID}, nil
}

func (ms msgServer) AddMilestone(goCtx context.Context, msg *types.MsgAddMilestone) (*types.MsgAddMilestoneResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	instructor := sdk.MustAccAddressFromBech32(msg.Instructor)

	if err := ms.Keeper.AddMilestone(goCtx, instructor, msg.CourseId, msg.MilestoneId,
		msg.Title, msg.Description, msg.Points, msg.Required); err != nil {
		return nil, err
	}
	return &types.MsgAddMilestoneResponse{}, nil
}

func (ms msgServer) Enroll(goCtx context.Context, msg *types.MsgEnroll) (*types.MsgEnrollResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	student := sdk.MustAccAddressFromBech32(msg.Student)

	enrollment, err := ms.Keeper.Enroll(goCtx, student, msg.CourseId)
	if err != nil {
		return nil, err
	}
	return &types.MsgEnrollResponse{Enrollment: enrollment}, nil
}

func (ms msgServer) CompleteMilestone(goCtx context.Context, msg *types.MsgCompleteMilestone) (*types.MsgCompleteMilestoneResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	student := sdk.MustAccAddressFromBech32(msg.Student)

	enrollment, err := ms.Keeper.RecordMilestone(goCtx, student, msg.CourseId, msg.MilestoneId)
	if err != nil {
		return nil, err
	}
	return &types.MsgCompleteMilestoneResponse{Enrollment: enrollment}, nil
}

func (ms msgServer) UpdateProgress(goCtx context.Context, msg *types.MsgUpdateProgress) (*types.MsgUpdateProgressResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	instructor := sdk.MustAccAddressFromBech32(msg.Instructor)
	student := sdk.MustAccAddressFromBech32(msg.Student)

	if err := ms.Keeper.SetProgress(goCtx, instructor, student, msg.CourseId, msg.ProgressPct); err != nil {
		return nil, err
	}
	return &types.MsgUpdateProgressResponse{}, nil
}

func (ms msgServer) CompleteCourse(goCtx context.Context, msg *types.MsgCompleteCourse) (*types.MsgCompleteCourseResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	student := sdk.MustAccAddressFromBech32(msg.Student)

	receipt, err := ms.Keeper.CompleteCourse(goCtx, student, msg.CourseId)
	if err != nil {
		return nil, err
	}
	return &types.MsgCompleteCourseResponse{Receipt: receipt}, nil
}

func (ms msgServer) ClaimForfeitedStakes(goCtx context.Context, msg *types.MsgClaimForfeitedStakes) (*types.MsgClaimForfeitedStakesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	instructor := sdk.MustAccAddressFromBech32(msg.Instructor)

	receipt, err := ms.Keeper.ClaimForfeitedStakes(goCtx, instructor, msg.CourseId)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimForfeitedStakesResponse{Receipt: receipt}, nil
}

func (ms msgServer) FundCourseRewards(goCtx context.Context, msg *types.MsgFundCourseRewards) (*types.MsgFundCourseRewardsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	funder := sdk.MustAccAddressFromBech32(msg.Funder)

	pool, err := ms.Keeper.FundCourseRewards(goCtx, funder, msg.CourseId, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgFundCourseRewardsResponse{RewardPool: pool}, nil
}

func (ms msgServer) ToggleCourseStatus(goCtx context.Context, msg *types.MsgToggleCourseStatus) (*types.MsgToggleCourseStatusResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority := sdk.MustAccAddressFromBech32(msg.Authority)

	active, err := ms.Keeper.ToggleCourseStatus(goCtx, authority, msg.CourseId)
	if err != nil {
		return nil, err
	}
	return &types.MsgToggleCourseStatusResponse{IsActive: active}, nil
}

func (ms msgServer) SetPlatformFee(goCtx context.Context, msg *types.MsgSetPlatformFee) (*types.MsgSetPlatformFeeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority := sdk.MustAccAddressFromBech32(msg.Authority)

	if err := ms.Keeper.SetPlatformFee(goCtx, authority, msg.PlatformFeePct); err != nil {
		return nil, err
	}
	return &types.MsgSetPlatformFeeResponse{}, nil
}

func (ms msgServer) WithdrawPlatformFees(goCtx context.Context, msg *types.MsgWithdrawPlatformFees) (*types.MsgWithdrawPlatformFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority := sdk.MustAccAddressFromBech32(msg.Authority)
	recipient := sdk.MustAccAddressFromBech32(msg.Recipient)

	amount, err := ms.Keeper.WithdrawPlatformFees(goCtx, authority, recipient)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawPlatformFeesResponse{Amount: amount}, nil
}
