package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/stakedlearn/stakedlearn/testutil/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

func TestAdminOperationsRequireOwner(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	stranger := keepertest.TestAddr("stranger")

	courseID := f.CreateFundedCourse(t, instructor, 100, 50, 10, 50, 0)

	_, err := f.Keeper.ToggleCourseStatus(f.Ctx, stranger, courseID)
	require.ErrorIs(t, err, types.ErrOwnerOnly)
	require.Equal(t, types.KindAuthorization, types.KindOf(err))

	// instructors are not admins either
	_, err = f.Keeper.ToggleCourseStatus(f.Ctx, instructor, courseID)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.ErrorIs(t, f.Keeper.SetPlatformFee(f.Ctx, stranger, 10), types.ErrOwnerOnly)

	_, err = f.Keeper.WithdrawPlatformFees(f.Ctx, stranger, stranger)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	course, _ := f.Keeper.GetCourse(f.Ctx, courseID)
	require.True(t, course.IsActive)
	require.Equal(t, uint32(types.DefaultPlatformFeePct), f.Keeper.GetParams(f.Ctx).PlatformFeePct)

	active, err := f.Keeper.ToggleCourseStatus(f.Ctx, f.Authority, courseID)
	require.NoError(t, err)
	require.False(t, active)
	course, _ = f.Keeper.GetCourse(f.Ctx, courseID)
	require.False(t, course.IsActive)

	active, err = f.Keeper.ToggleCourseStatus(f.Ctx, f.Authority, courseID)
	require.NoError(t, err)
	require.True(t, active)

	require.NoError(t, f.Keeper.SetPlatformFee(f.Ctx, f.Authority, 10))
	require.Equal(t, uint32(10), f.Keeper.GetParams(f.Ctx).PlatformFeePct)
}

func TestToggleUnknownCourse(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)

	_, err := f.Keeper.ToggleCourseStatus(f.Ctx, f.Authority, 3)
	require.ErrorIs(t, err, types.ErrCourseNotFound)
}

func TestSetPlatformFeeBounds(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)

	require.ErrorIs(t, f.Keeper.SetPlatformFee(f.Ctx, f.Authority, 21), types.ErrFeeTooHigh)
	require.NoError(t, f.Keeper.SetPlatformFee(f.Ctx, f.Authority, 20))
	require.NoError(t, f.Keeper.SetPlatformFee(f.Ctx, f.Authority, 0))
	require.Zero(t, f.Keeper.GetParams(f.Ctx).PlatformFeePct)
}

func TestWithdrawPlatformFees(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := keepertest.TestAddr("student")
	treasury := keepertest.TestAddr("treasury")

	amount, err := f.Keeper.WithdrawPlatformFees(f.Ctx, f.Authority, treasury)
	require.NoError(t, err)
	require.True(t, amount.IsZero())

	require.NoError(t, f.Keeper.SetPlatformFee(f.Ctx, f.Authority, 20))
	courseID := f.CreateFundedCourse(t, instructor, 1_000, 10, 0, 100, 0)
	f.FundAccount(t, student, 1_000)
	_, err = f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)

	f.AdvanceHeight(1)
	_, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.NoError(t, err)
	require.Equal(t, "200", f.Keeper.GetAccruedPlatformFees(f.Ctx).String())

	amount, err = f.Keeper.WithdrawPlatformFees(f.Ctx, f.Authority, treasury)
	require.NoError(t, err)
	require.Equal(t, "200", amount.String())
	require.Equal(t, "200", f.Balance(treasury).String())
	require.True(t, f.Keeper.GetAccruedPlatformFees(f.Ctx).IsZero())
	require.True(t, f.CustodyBalance().IsZero())
}

func TestWithdrawToBlockedAddressKeepsFees(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := keepertest.TestAddr("student")

	courseID := f.CreateFundedCourse(t, instructor, 1_000, 10, 0, 100, 0)
	f.FundAccount(t, student, 1_000)
	_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)
	f.AdvanceHeight(1)
	_, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.NoError(t, err)

	// the custody account itself is a blocked recipient
	_, err = f.Keeper.WithdrawPlatformFees(f.Ctx, f.Authority, f.Keeper.GetModuleAddress())
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, "50", f.Keeper.GetAccruedPlatformFees(f.Ctx).String())
}
