package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// CompleteCourse settles a student's enrollment: the stake and the course
// reward are paid out of custody in one transfer. The enrollment, course
// counters and reward pool are only written when that transfer succeeds.
func (k Keeper) CompleteCourse(ctx context.Context, student sdk.AccAddress, courseID uint64) (types.SettlementReceipt, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	// CHECKS
	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.SettlementReceipt{}, types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	enrollment, found := k.GetEnrollment(ctx, courseID, student)
	if !found {
		return types.SettlementReceipt{}, types.ErrNotEnrolled.Wrapf("course %d, student %s", courseID, student)
	}
	if err := enrollment.CheckMutable(); err != nil {
		return types.SettlementReceipt{}, err
	}
	if enrollment.ProgressPct < course.MinCompletionPct {
		return types.SettlementReceipt{}, types.ErrInsufficientProgress.Wrapf(
			"progress %d%% < required %d%%", enrollment.ProgressPct, course.MinCompletionPct)
	}
	if course.RewardPool.IsNil() || course.RewardPool.LT(course.RewardAmount) {
		return types.SettlementReceipt{}, types.ErrTransferFailed.Wrapf(
			"course %d reward pool %s cannot cover reward %s", courseID, course.RewardPool, course.RewardAmount)
	}

	height := sdkCtx.BlockHeight()
	payout := enrollment.StakePaid.Add(course.RewardAmount)

	// EFFECTS in cache, committed only after the transfer
	cacheCtx, writeFn := sdkCtx.CacheContext()

	enrollment.Status = types.EnrollmentStatusCompleted
	enrollment.CompletedAt = height
	enrollment.SettledAt = height
	if err := k.SetEnrollment(cacheCtx, enrollment); err != nil {
		return types.SettlementReceipt{}, err
	}
	if _, err := k.updateCourse(cacheCtx, courseID, func(c *types.Course) {
		c.TotalCompleted++
		c.RewardPool = c.RewardPool.Sub(c.RewardAmount)
	}); err != nil {
		return types.SettlementReceipt{}, err
	}

	coins := k.coins(cacheCtx, payout)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, student, coins); err != nil {
		return types.SettlementReceipt{}, types.ErrTransferFailed.Wrapf("pay out %s: %v", coins, err)
	}

	writeFn()

	receipt := types.SettlementReceipt{
		Student:       enrollment.Student,
		CourseId:      courseID,
		StakeReturned: enrollment.StakePaid,
		RewardPaid:    course.RewardAmount,
		TotalPayout:   payout,
		CompletedAt:   height,
	}

	k.metrics.CoursesCompleted.Inc()
	k.metrics.observeFlow(flowCompletionOut, payout)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCourseCompleted,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyStudent, receipt.Student),
			sdk.NewAttribute(types.AttributeKeyStake, receipt.StakeReturned.String()),
			sdk.NewAttribute(types.AttributeKeyReward, receipt.RewardPaid.String()),
			sdk.NewAttribute(types.AttributeKeyPayout, payout.String()),
		),
	)

	return receipt, nil
}

// ClaimForfeitedStakes sweeps every enrollment of the course still open after
// the deadline. Each stake is split into a platform fee, which stays in
// custody as accrued fees, and the instructor share. The shares are paid in a
// single transfer. Settled enrollments are skipped, so a repeated sweep pays
// nothing.
func (k Keeper) ClaimForfeitedStakes(ctx context.Context, caller sdk.AccAddress, courseID uint64) (types.ForfeitureReceipt, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.ForfeitureReceipt{}, types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	if course.Instructor != caller.String() {
		return types.ForfeitureReceipt{}, types.ErrUnauthorized.Wrapf("course %d", courseID)
	}
	height := sdkCtx.BlockHeight()
	if !course.DurationElapsed(height) {
		return types.ForfeitureReceipt{}, types.ErrDurationNotElapsed.Wrapf(
			"height %d, deadline %d", height, course.Deadline())
	}

	feePct := k.GetParams(ctx).PlatformFeePct
	receipt := types.ForfeitureReceipt{
		CourseId:         courseID,
		Instructor:       course.Instructor,
		GrossStake:       math.ZeroInt(),
		PlatformFee:      math.ZeroInt(),
		InstructorPayout: math.ZeroInt(),
	}

	var open []types.Enrollment
	k.IterateCourseEnrollments(ctx, courseID, func(e types.Enrollment) bool {
		if e.Status == types.EnrollmentStatusEnrolled {
			open = append(open, e)
		}
		return false
	})

	cacheCtx, writeFn := sdkCtx.CacheContext()

	for _, e := range open {
		fee := types.PlatformFee(e.StakePaid, feePct)
		receipt.GrossStake = receipt.GrossStake.Add(e.StakePaid)
		receipt.PlatformFee = receipt.PlatformFee.Add(fee)
		receipt.InstructorPayout = receipt.InstructorPayout.Add(e.StakePaid.Sub(fee))
		receipt.Forfeited++

		e.Status = types.EnrollmentStatusForfeited
		e.SettledAt = height
		if err := k.SetEnrollment(cacheCtx, e); err != nil {
			return types.ForfeitureReceipt{}, err
		}
	}

	if receipt.PlatformFee.IsPositive() {
		k.SetAccruedPlatformFees(cacheCtx, k.GetAccruedPlatformFees(cacheCtx).Add(receipt.PlatformFee))
	}
	if receipt.InstructorPayout.IsPositive() {
		coins := k.coins(cacheCtx, receipt.InstructorPayout)
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, caller, coins); err != nil {
			return types.ForfeitureReceipt{}, types.ErrTransferFailed.Wrapf("pay out %s: %v", coins, err)
		}
	}

	if receipt.Forfeited == 0 {
		k.Logger(ctx).Debug("no open enrollments to forfeit", "course_id", courseID)
		return receipt, nil
	}

	writeFn()

	k.metrics.StakesForfeited.Add(float64(receipt.Forfeited))
	k.metrics.observeFlow(flowForfeitureOut, receipt.InstructorPayout)
	if f, err := receipt.PlatformFee.ToLegacyDec().Float64(); err == nil {
		k.metrics.PlatformFees.Add(f)
	}
	k.Logger(ctx).Info("forfeited stakes claimed", "receipt", receipt.String())

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakesForfeited,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyInstructor, receipt.Instructor),
			sdk.NewAttribute(types.AttributeKeyForfeitedCount, fmt.Sprintf("%d", receipt.Forfeited)),
			sdk.NewAttribute(types.AttributeKeyAmount, receipt.GrossStake.String()),
			sdk.NewAttribute(types.AttributeKeyPlatformFee, receipt.PlatformFee.String()),
			sdk.NewAttribute(types.AttributeKeyPayout, receipt.InstructorPayout.String()),
		),
	)

	return receipt, nil
}

// FundCourseRewards moves amount from funder into custody and credits the
// course reward pool. Completion payouts are drawn only from that pool.
func (k Keeper) FundCourseRewards(ctx context.Context, funder sdk.AccAddress, courseID uint64, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, found := k.GetCourse(ctx, courseID); !found {
		return math.Int{}, types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("reward funding must be positive")
	}

	cacheCtx, writeFn := sdkCtx.CacheContext()

	coins := k.coins(cacheCtx, amount)
	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, funder, types.ModuleName, coins); err != nil {
		return math.Int{}, types.ErrTransferFailed.Wrapf("fund rewards %s: %v", coins, err)
	}
	course, err := k.updateCourse(cacheCtx, courseID, func(c *types.Course) {
		if c.RewardPool.IsNil() {
			c.RewardPool = math.ZeroInt()
		}
		c.RewardPool = c.RewardPool.Add(amount)
	})
	if err != nil {
		return math.Int{}, err
	}

	writeFn()

	k.metrics.observeFlow(flowRewardIn, amount)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardsFunded,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyFunder, funder.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyRewardPool, course.RewardPool.String()),
		),
	)

	return course.RewardPool, nil
}
