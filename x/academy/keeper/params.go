package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// GetParams returns the module parameters, or the defaults if none are stored.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	bz := k.getStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	k.mustUnmarshal(bz, &params)
	return params
}

// SetParams validates and stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	k.getStore(ctx).Set(ParamsKey, k.mustMarshal(params))
	return nil
}

// GetAccruedPlatformFees returns the platform fees held in custody.
func (k Keeper) GetAccruedPlatformFees(ctx context.Context) math.Int {
	bz := k.getStore(ctx).Get(AccruedFeesKey)
	if bz == nil {
		return math.ZeroInt()
	}
	var fees math.Int
	if err := fees.Unmarshal(bz); err != nil {
		panic(fmt.Sprintf("corrupt accrued platform fees: %v", err))
	}
	return fees
}

// SetAccruedPlatformFees stores the platform fees held in custody.
func (k Keeper) SetAccruedPlatformFees(ctx context.Context, fees math.Int) {
	bz, err := fees.Marshal()
	if err != nil {
		panic(fmt.Sprintf("marshal accrued platform fees: %v", err))
	}
	k.getStore(ctx).Set(AccruedFeesKey, bz)
}

// requireAdmin rejects callers other than the configured authority.
func (k Keeper) requireAdmin(caller sdk.AccAddress) error {
	if caller.String() != k.authority {
		return types.ErrOwnerOnly.Wrapf("expected %s, got %s", k.authority, caller)
	}
	return nil
}

// ToggleCourseStatus flips the active flag of a course and returns the new value.
func (k Keeper) ToggleCourseStatus(ctx context.Context, caller sdk.AccAddress, courseID uint64) (bool, error) {
	if err := k.requireAdmin(caller); err != nil {
		return false, err
	}
	course, err := k.updateCourse(ctx, courseID, func(c *types.Course) { c.IsActive = !c.IsActive })
	if err != nil {
		return false, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCourseToggled,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyIsActive, fmt.Sprintf("%t", course.IsActive)),
		),
	)
	return course.IsActive, nil
}

// SetPlatformFee updates the fee withheld from forfeited stakes.
func (k Keeper) SetPlatformFee(ctx context.Context, caller sdk.AccAddress, pct uint32) error {
	if err := k.requireAdmin(caller); err != nil {
		return err
	}
	if err := types.ValidatePlatformFee(pct); err != nil {
		return err
	}

	params := k.GetParams(ctx)
	params.PlatformFeePct = pct
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePlatformFeeUpdated,
			sdk.NewAttribute(types.AttributeKeyPlatformFeePct, fmt.Sprintf("%d", pct)),
		),
	)
	return nil
}

// WithdrawPlatformFees pays every accrued platform fee to recipient. With
// nothing accrued it succeeds without a transfer.
func (k Keeper) WithdrawPlatformFees(ctx context.Context, caller, recipient sdk.AccAddress) (math.Int, error) {
	if err := k.requireAdmin(caller); err != nil {
		return math.Int{}, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	accrued := k.GetAccruedPlatformFees(ctx)
	if !accrued.IsPositive() {
		return math.ZeroInt(), nil
	}

	cacheCtx, writeFn := sdkCtx.CacheContext()

	k.SetAccruedPlatformFees(cacheCtx, math.ZeroInt())
	coins := k.coins(cacheCtx, accrued)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, recipient, coins); err != nil {
		return math.Int{}, types.ErrTransferFailed.Wrapf("withdraw %s: %v", coins, err)
	}

	writeFn()

	k.metrics.observeFlow(flowFeeWithdrawal, accrued)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesWithdrawn,
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, accrued.String()),
		),
	)
	return accrued, nil
}
