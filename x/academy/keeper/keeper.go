package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// Keeper of the academy store. It owns custody of every stake, reward pool
// and accrued platform fee through the academy module account.
type Keeper struct {
	storeKey      storetypes.StoreKey
	cdc           *codec.LegacyAmino
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	// authority is the platform admin allowed to toggle courses, set the fee
	// and withdraw accrued fees.
	authority string
	metrics   *AcademyMetrics
}

// NewKeeper creates a new academy Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	accountKeeper types.AccountKeeper,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid academy authority address %q: %v", authority, err))
	}
	if addr := accountKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", types.ModuleName))
	}

	return &Keeper{
		storeKey:      key,
		cdc:           cdc,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		authority:     authority,
		metrics:       NewAcademyMetrics(),
	}
}

// getStore returns the KVStore for the academy module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetAuthority returns the platform admin address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// GetModuleAddress returns the custody account address.
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

// CustodyBalance returns the module account balance in the configured denom.
func (k Keeper) CustodyBalance(ctx context.Context) math.Int {
	params := k.GetParams(ctx)
	return k.bankKeeper.GetBalance(ctx, k.GetModuleAddress(), params.Denom).Amount
}

func (k Keeper) mustMarshal(v interface{}) []byte {
	return k.cdc.MustMarshalJSON(v)
}

func (k Keeper) mustUnmarshal(bz []byte, ptr interface{}) {
	k.cdc.MustUnmarshalJSON(bz, ptr)
}

func (k Keeper) coins(ctx context.Context, amount math.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(k.GetParams(ctx).Denom, amount))
}
