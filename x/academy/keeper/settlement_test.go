package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/stakedlearn/stakedlearn/testutil/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// Stake 1,000,000, reward 500,000, threshold 80, progress 95.
func TestCompleteCourseHappyPath(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := keepertest.TestAddr("student")

	courseID := f.CreateFundedCourse(t, instructor, 1_000_000, 500_000, 1_000, 80, 500_000)
	f.FundAccount(t, student, 1_000_000)

	_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)
	require.True(t, f.Balance(student).IsZero())
	require.NoError(t, f.Keeper.SetProgress(f.Ctx, instructor, student, courseID, 95))

	f.AdvanceHeight(10)
	receipt, err := f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.NoError(t, err)
	require.Equal(t, "1000000", receipt.StakeReturned.String())
	require.Equal(t, "500000", receipt.RewardPaid.String())
	require.Equal(t, "1500000", receipt.TotalPayout.String())
	require.Equal(t, int64(11), receipt.CompletedAt)

	require.Equal(t, "1500000", f.Balance(student).String())
	require.True(t, f.CustodyBalance().IsZero())

	enrollment, _ := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
	require.True(t, enrollment.IsCompleted())
	require.Equal(t, int64(11), enrollment.CompletedAt)

	course, _ := f.Keeper.GetCourse(f.Ctx, courseID)
	require.Equal(t, uint64(1), course.TotalCompleted)
	require.True(t, course.RewardPool.IsZero())

	_, err = f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.ErrorIs(t, err, types.ErrAlreadyCompleted)
	require.Equal(t, types.KindConflict, types.KindOf(err))
	require.Equal(t, "1500000", f.Balance(student).String())
}

// Same course, progress 60.
func TestCompleteCourseInsufficientProgress(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := keepertest.TestAddr("student")

	courseID := f.CreateFundedCourse(t, instructor, 1_000_000, 500_000, 1_000, 80, 500_000)
	f.FundAccount(t, student, 1_000_000)
	_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)
	require.NoError(t, f.Keeper.SetProgress(f.Ctx, instructor, student, courseID, 60))

	custodyBefore := f.CustodyBalance()
	_, err = f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.ErrorIs(t, err, types.ErrInsufficientProgress)
	require.Equal(t, types.KindPrecondition, types.KindOf(err))

	require.True(t, f.Balance(student).IsZero())
	require.True(t, f.CustodyBalance().Equal(custodyBefore))
	enrollment, _ := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
	require.False(t, enrollment.IsCompleted())
	require.Zero(t, enrollment.CompletedAt)
}

func TestCompleteCourseFailures(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := keepertest.TestAddr("student")

	_, err := f.Keeper.CompleteCourse(f.Ctx, student, 1)
	require.ErrorIs(t, err, types.ErrCourseNotFound)

	courseID := f.CreateFundedCourse(t, instructor, 100, 50, 10, 0, 0)
	_, err = f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.ErrorIs(t, err, types.ErrNotEnrolled)

	f.FundAccount(t, student, 100)
	_, err = f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)

	// threshold 0 is met immediately, but the reward pool is empty
	_, err = f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.ErrorIs(t, err, types.ErrTransferFailed)
	enrollment, _ := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
	require.Equal(t, types.EnrollmentStatusEnrolled, enrollment.Status)
	course, _ := f.Keeper.GetCourse(f.Ctx, courseID)
	require.Zero(t, course.TotalCompleted)
	require.Equal(t, "100", f.CustodyBalance().String())
}

func TestCompleteCourseDoesNotSpendOtherStakes(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	alice := keepertest.TestAddr("alice")
	bob := keepertest.TestAddr("bob")

	courseID := f.CreateFundedCourse(t, instructor, 1_000, 500, 10, 0, 500)
	f.FundAccount(t, alice, 1_000)
	f.FundAccount(t, bob, 1_000)
	_, err := f.Keeper.Enroll(f.Ctx, alice, courseID)
	require.NoError(t, err)
	_, err = f.Keeper.Enroll(f.Ctx, bob, courseID)
	require.NoError(t, err)

	_, err = f.Keeper.CompleteCourse(f.Ctx, alice, courseID)
	require.NoError(t, err)

	// the pool only covered one reward; bob's stake stays in custody
	_, err = f.Keeper.CompleteCourse(f.Ctx, bob, courseID)
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, "1000", f.CustodyBalance().String())
	require.Equal(t, "1500", f.Balance(alice).String())
}

func TestClaimForfeitedStakes(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	other := keepertest.TestAddr("other")
	alice := keepertest.TestAddr("alice")
	bob := keepertest.TestAddr("bob")
	carol := keepertest.TestAddr("carol")

	courseID := f.CreateFundedCourse(t, instructor, 1_000, 100, 10, 50, 100)
	for _, student := range []sdk.AccAddress{alice, bob, carol} {
		f.FundAccount(t, student, 1_000)
		_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
		require.NoError(t, err)
	}

	// carol completes and is excluded from the sweep
	require.NoError(t, f.Keeper.SetProgress(f.Ctx, instructor, carol, courseID, 100))
	_, err := f.Keeper.CompleteCourse(f.Ctx, carol, courseID)
	require.NoError(t, err)

	_, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, other, courseID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// deadline is height 11
	f.AdvanceHeight(10)
	_, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.ErrorIs(t, err, types.ErrDurationNotElapsed)

	f.AdvanceHeight(1)
	f.Ctx = f.Ctx.WithEventManager(sdk.NewEventManager())
	receipt, err := f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.NoError(t, err)
	require.Equal(t, 1, countEvents(f.Ctx, types.EventTypeStakesForfeited))
	require.Equal(t, uint64(2), receipt.Forfeited)
	require.Equal(t, "2000", receipt.GrossStake.String())
	require.Equal(t, "100", receipt.PlatformFee.String())
	require.Equal(t, "1900", receipt.InstructorPayout.String())

	require.Equal(t, "1900", f.Balance(instructor).String())
	require.Equal(t, "100", f.Keeper.GetAccruedPlatformFees(f.Ctx).String())
	require.Equal(t, "100", f.CustodyBalance().String())

	for _, student := range []sdk.AccAddress{alice, bob} {
		enrollment, _ := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
		require.True(t, enrollment.IsForfeited())
		require.Equal(t, int64(12), enrollment.SettledAt)
		require.Zero(t, enrollment.CompletedAt)
	}

	// a second sweep pays nothing and reports no settlement
	f.Ctx = f.Ctx.WithEventManager(sdk.NewEventManager())
	receipt, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.NoError(t, err)
	require.Zero(t, receipt.Forfeited)
	require.Zero(t, countEvents(f.Ctx, types.EventTypeStakesForfeited))
	require.True(t, receipt.InstructorPayout.IsZero())
	require.Equal(t, "1900", f.Balance(instructor).String())

	// forfeited enrollments are terminal
	_, err = f.Keeper.CompleteCourse(f.Ctx, alice, courseID)
	require.ErrorIs(t, err, types.ErrEnrollmentForfeited)
	require.ErrorIs(t, f.Keeper.SetProgress(f.Ctx, instructor, alice, courseID, 100), types.ErrEnrollmentForfeited)
}

func TestClaimForfeitedStakesFeeRounding(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")

	courseID := f.CreateFundedCourse(t, instructor, 19, 1, 0, 50, 0)
	for i, name := range []string{"s1", "s2", "s3"} {
		student := keepertest.TestAddr(name)
		f.FundAccount(t, student, 19)
		_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
		require.NoError(t, err, i)
	}

	f.AdvanceHeight(1)
	receipt, err := f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.NoError(t, err)
	// floor(19 * 5 / 100) = 0 per stake; fees are computed per enrollment
	require.True(t, receipt.PlatformFee.IsZero())
	require.Equal(t, "57", receipt.InstructorPayout.String())
}

func TestFundCourseRewards(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	sponsor := keepertest.TestAddr("sponsor")

	courseID := f.CreateFundedCourse(t, instructor, 100, 50, 10, 0, 0)

	_, err := f.Keeper.FundCourseRewards(f.Ctx, sponsor, 7, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrCourseNotFound)
	_, err = f.Keeper.FundCourseRewards(f.Ctx, sponsor, courseID, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	_, err = f.Keeper.FundCourseRewards(f.Ctx, sponsor, courseID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrTransferFailed)

	f.FundAccount(t, sponsor, 300)
	pool, err := f.Keeper.FundCourseRewards(f.Ctx, sponsor, courseID, math.NewInt(120))
	require.NoError(t, err)
	require.Equal(t, "120", pool.String())
	pool, err = f.Keeper.FundCourseRewards(f.Ctx, sponsor, courseID, math.NewInt(80))
	require.NoError(t, err)
	require.Equal(t, "200", pool.String())

	require.Equal(t, "100", f.Balance(sponsor).String())
	require.Equal(t, "200", f.CustodyBalance().String())
}

func countEvents(ctx sdk.Context, eventType string) int {
	n := 0
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

// fundCustodyAccount gives the academy module address a spendable balance.
// Payouts to it are rejected because the address is blocked.
func fundCustodyAccount(t *testing.T, f *keepertest.AcademyFixture, amount int64) sdk.AccAddress {
	t.Helper()
	coins := sdk.NewCoins(sdk.NewCoin(f.Keeper.GetParams(f.Ctx).Denom, math.NewInt(amount)))
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, keepertest.MinterModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToModule(f.Ctx, keepertest.MinterModuleName, types.ModuleName, coins))
	return authtypes.NewModuleAddress(types.ModuleName)
}

func TestCompleteCourseRejectedPayoutRollsBack(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	student := fundCustodyAccount(t, f, 100)

	courseID := f.CreateFundedCourse(t, instructor, 100, 50, 10, 80, 50)
	_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)
	require.NoError(t, f.Keeper.SetProgress(f.Ctx, instructor, student, courseID, 90))

	custodyBefore := f.CustodyBalance()
	f.Ctx = f.Ctx.WithEventManager(sdk.NewEventManager())
	_, err = f.Keeper.CompleteCourse(f.Ctx, student, courseID)
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, types.KindCustody, types.KindOf(err))

	enrollment, found := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
	require.True(t, found)
	require.Equal(t, types.EnrollmentStatusEnrolled, enrollment.Status)
	require.Zero(t, enrollment.CompletedAt)
	require.Zero(t, enrollment.SettledAt)

	course, _ := f.Keeper.GetCourse(f.Ctx, courseID)
	require.Zero(t, course.TotalCompleted)
	require.Equal(t, "50", course.RewardPool.String())
	require.True(t, f.CustodyBalance().Equal(custodyBefore))
	require.Zero(t, countEvents(f.Ctx, types.EventTypeCourseCompleted))
}

func TestClaimForfeitedStakesRejectedPayoutRollsBack(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	// the custody address owns the course and cannot be paid
	instructor := authtypes.NewModuleAddress(types.ModuleName)
	student := keepertest.TestAddr("student")

	courseID := f.CreateFundedCourse(t, instructor, 1_000, 100, 5, 80, 0)
	f.FundAccount(t, student, 1_000)
	_, err := f.Keeper.Enroll(f.Ctx, student, courseID)
	require.NoError(t, err)

	f.AdvanceHeight(6)
	custodyBefore := f.CustodyBalance()
	f.Ctx = f.Ctx.WithEventManager(sdk.NewEventManager())
	_, err = f.Keeper.ClaimForfeitedStakes(f.Ctx, instructor, courseID)
	require.ErrorIs(t, err, types.ErrTransferFailed)

	enrollment, _ := f.Keeper.GetEnrollment(f.Ctx, courseID, student)
	require.Equal(t, types.EnrollmentStatusEnrolled, enrollment.Status)
	require.Zero(t, enrollment.SettledAt)
	require.True(t, f.Keeper.GetAccruedPlatformFees(f.Ctx).IsZero())
	require.True(t, f.CustodyBalance().Equal(custodyBefore))
	require.Zero(t, countEvents(f.Ctx, types.EventTypeStakesForfeited))
}
