package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/stakedlearn/stakedlearn/testutil/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

func TestMsgServerCourseLifecycle(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	instructor := keepertest.TestAddr("instructor").String()
	student := keepertest.TestAddr("student")

	_, err := ms.RegisterInstructor(f.Ctx, &types.MsgRegisterInstructor{Instructor: instructor, Name: "Ada"})
	require.NoError(t, err)

	created, err := ms.CreateCourse(f.Ctx, &types.MsgCreateCourse{
		Instructor:       instructor,
		Title:            "Go 101",
		StakeAmount:      math.NewInt(1_000_000),
		RewardAmount:     math.NewInt(500_000),
		DurationBlocks:   100,
		MinCompletionPct: 80,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), created.CourseId)

	_, err = ms.AddMilestone(f.Ctx, &types.MsgAddMilestone{Instructor: instructor, CourseId: 1, MilestoneId: 1, Title: "Week 1", Points: 5})
	require.NoError(t, err)

	f.FundAccount(t, keepertest.TestAddr("instructor"), 500_000)
	funded, err := ms.FundCourseRewards(f.Ctx, &types.MsgFundCourseRewards{Funder: instructor, CourseId: 1, Amount: math.NewInt(500_000)})
	require.NoError(t, err)
	require.Equal(t, "500000", funded.RewardPool.String())

	f.FundAccount(t, student, 1_000_000)
	enrolled, err := ms.Enroll(f.Ctx, &types.MsgEnroll{Student: student.String(), CourseId: 1})
	require.NoError(t, err)
	require.Equal(t, student.String(), enrolled.Enrollment.Student)

	milestone, err := ms.CompleteMilestone(f.Ctx, &types.MsgCompleteMilestone{Student: student.String(), CourseId: 1, MilestoneId: 1})
	require.NoError(t, err)
	require.Len(t, milestone.Enrollment.MilestonesCompleted, 1)

	_, err = ms.UpdateProgress(f.Ctx, &types.MsgUpdateProgress{Instructor: instructor, Student: student.String(), CourseId: 1, ProgressPct: 95})
	require.NoError(t, err)

	completed, err := ms.CompleteCourse(f.Ctx, &types.MsgCompleteCourse{Student: student.String(), CourseId: 1})
	require.NoError(t, err)
	require.Equal(t, "1500000", completed.Receipt.TotalPayout.String())
	require.Equal(t, "1500000", f.Balance(student).String())
}

func TestMsgServerValidatesBeforeKeeper(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)

	_, err := ms.Enroll(f.Ctx, &types.MsgEnroll{Student: "not-an-address", CourseId: 1})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = ms.UpdateProgress(f.Ctx, &types.MsgUpdateProgress{ProgressPct: 200})
	require.ErrorIs(t, err, types.ErrInvalidPercent)
}

func TestMsgServerAdmin(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	instructor := keepertest.TestAddr("instructor")
	stranger := keepertest.TestAddr("stranger").String()
	admin := f.Authority.String()

	courseID := f.CreateFundedCourse(t, instructor, 100, 10, 5, 50, 0)

	_, err := ms.ToggleCourseStatus(f.Ctx, &types.MsgToggleCourseStatus{Authority: stranger, CourseId: courseID})
	require.ErrorIs(t, err, types.ErrOwnerOnly)
	_, err = ms.SetPlatformFee(f.Ctx, &types.MsgSetPlatformFee{Authority: stranger, PlatformFeePct: 3})
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	toggled, err := ms.ToggleCourseStatus(f.Ctx, &types.MsgToggleCourseStatus{Authority: admin, CourseId: courseID})
	require.NoError(t, err)
	require.False(t, toggled.IsActive)

	_, err = ms.SetPlatformFee(f.Ctx, &types.MsgSetPlatformFee{Authority: admin, PlatformFeePct: 25})
	require.ErrorIs(t, err, types.ErrFeeTooHigh)
	_, err = ms.SetPlatformFee(f.Ctx, &types.MsgSetPlatformFee{Authority: admin, PlatformFeePct: 3})
	require.NoError(t, err)

	withdrawn, err := ms.WithdrawPlatformFees(f.Ctx, &types.MsgWithdrawPlatformFees{Authority: admin, Recipient: admin})
	require.NoError(t, err)
	require.True(t, withdrawn.Amount.IsZero())

	_, err = ms.ClaimForfeitedStakes(f.Ctx, &types.MsgClaimForfeitedStakes{Instructor: instructor.String(), CourseId: courseID})
	require.ErrorIs(t, err, types.ErrDurationNotElapsed)
}
