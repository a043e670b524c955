package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	"github.com/stakedlearn/stakedlearn/x/academy/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// MinterModuleName is the module account the fixture mints test funds from.
const MinterModuleName = "minter"

// AcademyFixture bundles an academy keeper with the real auth and bank
// keepers backing its custody account.
type AcademyFixture struct {
	Keeper        *keeper.Keeper
	Ctx           sdk.Context
	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	Authority     sdk.AccAddress
}

// AcademyKeeper creates a test keeper for the academy module
func AcademyKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	f := NewAcademyFixture(t)
	return f.Keeper, f.Ctx
}

// NewAcademyFixture mounts in-memory stores and wires auth, bank and academy.
// The context starts at height 1 with default params.
func NewAcademyFixture(t testing.TB) *AcademyFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	govAuthority := authtypes.NewModuleAddress("gov")

	maccPerms := map[string][]string{
		MinterModuleName: {authtypes.Minter},
		types.ModuleName: nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		govAuthority.String(),
	)

	blockedAddrs := map[string]bool{
		authtypes.NewModuleAddress(types.ModuleName).String(): true,
	}

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		blockedAddrs,
		govAuthority.String(),
		log.NewNopLogger(),
	)

	admin := TestAddr("platform-admin")
	k := keeper.NewKeeper(
		types.ModuleCdc,
		storeKey,
		bankKeeper,
		accountKeeper,
		admin.String(),
	)

	header := cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &AcademyFixture{
		Keeper:        k,
		Ctx:           ctx,
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		Authority:     admin,
	}
}

// TestAddr derives a deterministic 20-byte account address from name.
func TestAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// FundAccount mints amount of the module denom into addr.
func (f *AcademyFixture) FundAccount(t testing.TB, addr sdk.AccAddress, amount int64) {
	coins := sdk.NewCoins(sdk.NewCoin(f.Keeper.GetParams(f.Ctx).Denom, math.NewInt(amount)))
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, MinterModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, MinterModuleName, addr, coins))
}

// Balance returns addr's balance in the module denom.
func (f *AcademyFixture) Balance(addr sdk.AccAddress) math.Int {
	return f.BankKeeper.GetBalance(f.Ctx, addr, f.Keeper.GetParams(f.Ctx).Denom).Amount
}

// CustodyBalance returns the academy module account balance.
func (f *AcademyFixture) CustodyBalance() math.Int {
	return f.Keeper.CustodyBalance(f.Ctx)
}

// AdvanceHeight moves the fixture context forward by blocks.
func (f *AcademyFixture) AdvanceHeight(blocks int64) {
	f.Ctx = f.Ctx.WithBlockHeight(f.Ctx.BlockHeight() + blocks)
}

// CreateFundedCourse creates a course owned by instructor and funds its
// reward pool with rewardPool units minted to instructor first.
func (f *AcademyFixture) CreateFundedCourse(
	t testing.TB,
	instructor sdk.AccAddress,
	stake, reward int64,
	durationBlocks uint64,
	minPct uint32,
	rewardPool int64,
) uint64 {
	courseID, err := f.Keeper.CreateCourse(f.Ctx, instructor, "Course", "", math.NewInt(stake), math.NewInt(reward), durationBlocks, minPct)
	require.NoError(t, err)
	if rewardPool > 0 {
		f.FundAccount(t, instructor, rewardPool)
		_, err = f.Keeper.FundCourseRewards(f.Ctx, instructor, courseID, math.NewInt(rewardPool))
		require.NoError(t, err)
	}
	return courseID
}
