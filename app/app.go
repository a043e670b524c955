package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	abci "github.com/cometbft/cometbft/abci/types"
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
	"go.opentelemetry.io/otel"

	"github.com/stakedlearn/stakedlearn/app/telemetry"
	"github.com/stakedlearn/stakedlearn/indexer"
	academykeeper "github.com/stakedlearn/stakedlearn/x/academy/keeper"
	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

// Config holds the runtime settings.
type Config struct {
	ChainID string `mapstructure:"chain-id"`
	// Admin is the platform admin address of the academy module.
	Admin         string        `mapstructure:"admin"`
	BlockInterval time.Duration `mapstructure:"block-interval"`
	// CheckInvariants runs the academy invariants before every commit.
	CheckInvariants bool `mapstructure:"check-invariants"`
}

// DefaultConfig returns a one second block interval with invariant checks on.
func DefaultConfig() Config {
	return Config{
		ChainID:         "stakedlearn-devnet",
		BlockInterval:   time.Second,
		CheckInvariants: true,
	}
}

// maccPerms are the module accounts and their permissions.
var maccPerms = map[string][]string{
	TreasuryModuleName:      {authtypes.Minter},
	academytypes.ModuleName: nil,
}

// ModuleAccountAddrs returns the module account addresses that may not
// receive funds through user transfers.
func ModuleAccountAddrs() map[string]bool {
	addrs := make(map[string]bool, len(maccPerms))
	for name := range maccPerms {
		addrs[authtypes.NewModuleAddress(name).String()] = true
	}
	return addrs
}

// Result is the outcome of one applied action.
type Result struct {
	Height   int64        `json:"height"`
	Action   string       `json:"action"`
	Response interface{}  `json:"response"`
	Events   []abci.Event `json:"events"`
}

// App is the single-writer runtime around the academy module. It mounts the
// auth, bank and academy stores on one multistore, applies every action
// atomically and commits on a fixed block interval.
type App struct {
	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey
	config Config

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	AcademyKeeper *academykeeper.Keeper

	msgServer   academytypes.MsgServer
	queryServer academytypes.QueryServer
	invariant   sdk.Invariant

	sink    indexer.Sink
	metrics *telemetry.ActionMetrics

	// mu serializes actions, queries and commits.
	mu        sync.Mutex
	height    int64
	blockTime time.Time
	// pending holds the receipts of the open block until it is committed.
	pending []indexer.Receipt

	// flushMu keeps receipt batches in commit order once mu is released.
	flushMu sync.Mutex
}

// New mounts the stores on db and loads the latest committed version. A
// fresh db must be initialized with InitChain before use. sink may be nil.
func New(logger log.Logger, db dbm.DB, cfg Config, sink indexer.Sink) (*App, error) {
	if _, err := sdk.AccAddressFromBech32(cfg.Admin); err != nil {
		return nil, fmt.Errorf("invalid admin address %q: %w", cfg.Admin, err)
	}
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain id cannot be empty")
	}

	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, academytypes.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)

	bech32Prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()
	// auth and bank params are not governed here; the admin holds their authority too.
	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(bech32Prefix),
		bech32Prefix,
		cfg.Admin,
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		accountKeeper,
		ModuleAccountAddrs(),
		cfg.Admin,
		logger,
	)

	academyKeeper := academykeeper.NewKeeper(
		academytypes.ModuleCdc,
		keys[academytypes.StoreKey],
		bankKeeper,
		accountKeeper,
		cfg.Admin,
	)

	actionMetrics, err := telemetry.NewActionMetrics(otel.Meter(AppName))
	if err != nil {
		return nil, fmt.Errorf("failed to register action metrics: %w", err)
	}

	app := &App{
		logger:        logger.With("module", "app"),
		db:            db,
		cms:           cms,
		keys:          keys,
		config:        cfg,
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		AcademyKeeper: academyKeeper,
		msgServer:     academykeeper.NewMsgServerImpl(*academyKeeper),
		queryServer:   academykeeper.NewQueryServerImpl(*academyKeeper),
		invariant:     academykeeper.AllInvariants(*academyKeeper),
		sink:          sink,
		metrics:       actionMetrics,
		height:        cms.LastCommitID().Version + 1,
		blockTime:     time.Now().UTC(),
	}
	return app, nil
}

// Initialized reports whether a genesis has been committed.
func (app *App) Initialized() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cms.LastCommitID().Version > 0
}

// InitChain applies genesis and commits it as the first block. The academy
// custody account is minted exactly the obligations the genesis records.
func (app *App) InitChain(ctx context.Context, genesis GenesisState) error {
	if err := genesis.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	if genesis.ChainID != app.config.ChainID {
		return fmt.Errorf("genesis chain id %q does not match %q", genesis.ChainID, app.config.ChainID)
	}
	academyGenesis, err := genesis.AcademyGenesis()
	if err != nil {
		return err
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.cms.LastCommitID().Version > 0 {
		return fmt.Errorf("chain %s is already initialized at height %d", app.config.ChainID, app.cms.LastCommitID().Version)
	}

	cache := app.cms.CacheMultiStore()
	sdkCtx := app.newContext(ctx, cache)

	denom := academyGenesis.Params.Denom
	for _, b := range genesis.Balances {
		if !b.Amount.IsPositive() {
			continue
		}
		if err := app.mint(sdkCtx, sdk.MustAccAddressFromBech32(b.Address), sdk.NewCoins(sdk.NewCoin(denom, b.Amount))); err != nil {
			return fmt.Errorf("failed to fund %s: %w", b.Address, err)
		}
	}

	if err := app.AcademyKeeper.InitGenesis(sdkCtx, academyGenesis); err != nil {
		return err
	}

	custody, err := app.queryServer.Custody(sdkCtx, &academytypes.QueryCustodyRequest{})
	if err != nil {
		return err
	}
	obligations := custody.EscrowedStakes.Add(custody.RewardPools).Add(custody.AccruedPlatformFees)
	if obligations.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(denom, obligations))
		if err := app.BankKeeper.MintCoins(sdkCtx, TreasuryModuleName, coins); err != nil {
			return fmt.Errorf("failed to mint custody: %w", err)
		}
		if err := app.BankKeeper.SendCoinsFromModuleToModule(sdkCtx, TreasuryModuleName, academytypes.ModuleName, coins); err != nil {
			return fmt.Errorf("failed to fund custody: %w", err)
		}
	}

	if msg, broken := app.invariant(sdkCtx); broken {
		return fmt.Errorf("genesis breaks academy invariants: %s", msg)
	}

	cache.Write()
	commitID := app.commitLocked(ctx)
	app.logger.Info("initialized chain", "chain_id", app.config.ChainID, "height", commitID.Version,
		"balances", len(genesis.Balances), "courses", len(academyGenesis.Courses))
	return nil
}

// ExportGenesis exports the committed state. Module account balances are
// left out; InitChain recreates custody from the academy records.
func (app *App) ExportGenesis(ctx context.Context) (GenesisState, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	sdkCtx := app.newContext(ctx, app.cms.CacheMultiStore())
	denom := app.AcademyKeeper.GetParams(sdkCtx).Denom
	moduleAddrs := ModuleAccountAddrs()

	balances := []GenesisBalance{}
	for _, b := range app.BankKeeper.GetAccountsBalances(sdkCtx) {
		if moduleAddrs[b.Address] {
			continue
		}
		if amount := b.Coins.AmountOf(denom); amount.IsPositive() {
			balances = append(balances, GenesisBalance{Address: b.Address, Amount: amount})
		}
	}

	academy, err := academytypes.ModuleCdc.MarshalJSON(app.AcademyKeeper.ExportGenesis(sdkCtx))
	if err != nil {
		return GenesisState{}, fmt.Errorf("failed to encode academy genesis: %w", err)
	}

	return GenesisState{ChainID: app.config.ChainID, Balances: balances, Academy: academy}, nil
}

// Execute applies msg atomically at the current height. On error nothing
// is written. The receipt of a successful action goes to the indexer once
// its block is committed.
func (app *App) Execute(ctx context.Context, msg academytypes.Msg) (*Result, error) {
	if msg == nil {
		return nil, academytypes.ErrInvalidInput.Wrap("empty message")
	}
	action := ActionName(msg)
	return app.runAtomic(ctx, action, msg, func(sdkCtx sdk.Context) (interface{}, error) {
		return app.route(sdkCtx, msg)
	})
}

// Faucet mints amount to recipient. Only the platform admin may call it.
func (app *App) Faucet(ctx context.Context, caller, recipient sdk.AccAddress, amount math.Int) (*Result, error) {
	if caller.String() != app.AcademyKeeper.GetAuthority() {
		return nil, academytypes.ErrOwnerOnly.Wrapf("faucet caller %s", caller)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return nil, academytypes.ErrInvalidAmount.Wrap("faucet amount must be positive")
	}
	if ModuleAccountAddrs()[recipient.String()] {
		return nil, academytypes.ErrInvalidAddress.Wrapf("%s is a module account", recipient)
	}

	return app.runAtomic(ctx, "Faucet", nil, func(sdkCtx sdk.Context) (interface{}, error) {
		coins := sdk.NewCoins(sdk.NewCoin(app.AcademyKeeper.GetParams(sdkCtx).Denom, amount))
		if err := app.mint(sdkCtx, recipient, coins); err != nil {
			return nil, academytypes.ErrTransferFailed.Wrap(err.Error())
		}
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			"faucet",
			sdk.NewAttribute(academytypes.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(academytypes.AttributeKeyAmount, amount.String()),
		))
		return &academytypes.QueryBalanceResponse{
			Address: recipient.String(),
			Denom:   coins[0].Denom,
			Amount:  app.BankKeeper.GetBalance(sdkCtx, recipient, coins[0].Denom).Amount,
		}, nil
	})
}

// Query runs fn against the last written state.
func (app *App) Query(ctx context.Context, fn func(ctx context.Context, qs academytypes.QueryServer) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	return fn(app.newContext(ctx, app.cms.CacheMultiStore()), app.queryServer)
}

// Commit persists the written state as a new version and opens the next
// block. A broken invariant refuses the commit and nothing is indexed. The
// receipts of the committed block are handed to the indexer after the
// runtime lock is released.
func (app *App) Commit(ctx context.Context) (storetypes.CommitID, error) {
	app.mu.Lock()

	if app.config.CheckInvariants {
		sdkCtx := app.newContext(ctx, app.cms.CacheMultiStore())
		if msg, broken := app.invariant(sdkCtx); broken {
			height := app.height
			app.mu.Unlock()
			app.logger.Error("academy invariant broken", "height", height, "details", msg)
			return storetypes.CommitID{}, fmt.Errorf("invariant broken at height %d: %s", height, msg)
		}
	}
	commitID := app.commitLocked(ctx)
	receipts := app.pending
	app.pending = nil

	app.flushMu.Lock()
	app.mu.Unlock()
	defer app.flushMu.Unlock()

	app.flush(context.WithoutCancel(ctx), receipts)
	return commitID, nil
}

// Run commits a block every interval until ctx is done.
func (app *App) Run(ctx context.Context) error {
	interval := app.config.BlockInterval
	if interval <= 0 {
		interval = DefaultConfig().BlockInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Info("block producer started", "interval", interval.String(), "height", app.Height())
	for {
		select {
		case <-ctx.Done():
			app.logger.Info("block producer stopped", "height", app.Height())
			return nil
		case <-ticker.C:
			if _, err := app.Commit(ctx); err != nil {
				return err
			}
		}
	}
}

// Height returns the height of the block actions currently execute in.
func (app *App) Height() int64 {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.height
}

// LastCommitID returns the id of the last committed version.
func (app *App) LastCommitID() storetypes.CommitID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cms.LastCommitID()
}

// Admin returns the platform admin address.
func (app *App) Admin() string {
	return app.AcademyKeeper.GetAuthority()
}

// ChainID returns the configured chain id.
func (app *App) ChainID() string {
	return app.config.ChainID
}

// Close closes the indexer sink and the database. Actions of the open block
// are neither committed nor indexed.
func (app *App) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.flushMu.Lock()
	defer app.flushMu.Unlock()

	if len(app.pending) > 0 {
		app.logger.Info("dropping receipts of uncommitted block", "height", app.height, "receipts", len(app.pending))
		app.pending = nil
	}
	if app.sink != nil {
		if err := app.sink.Close(); err != nil {
			app.logger.Error("failed to close indexer", "error", err)
		}
	}
	return app.db.Close()
}

// ActionName is the short type name of msg, e.g. "MsgEnroll".
func ActionName(msg academytypes.Msg) string {
	name := fmt.Sprintf("%T", msg)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (app *App) runAtomic(
	ctx context.Context,
	action string,
	msg academytypes.Msg,
	fn func(sdkCtx sdk.Context) (interface{}, error),
) (*Result, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	start := time.Now()
	ctx, span := telemetry.StartActionSpan(ctx, action, app.height)
	defer span.End()

	cache := app.cms.CacheMultiStore()
	sdkCtx := app.newContext(ctx, cache)

	resp, err := fn(sdkCtx)
	app.metrics.RecordAction(ctx, action, time.Since(start), err)
	telemetry.SetActionOutcome(span, err)
	if err != nil {
		app.logger.Debug("action rejected", "action", action, "height", app.height, "error", err)
		return nil, err
	}
	cache.Write()

	result := &Result{
		Height:   app.height,
		Action:   action,
		Response: resp,
		Events:   sdkCtx.EventManager().Events().ToABCIEvents(),
	}
	app.queueReceipt(result, msg)
	return result, nil
}

// queueReceipt records the receipt of an applied action for the open block.
// mu must be held.
func (app *App) queueReceipt(result *Result, msg academytypes.Msg) {
	if app.sink == nil {
		return
	}
	var raw []byte
	if msg != nil {
		bz, err := academytypes.ModuleCdc.MarshalJSON(msg)
		if err != nil {
			app.logger.Error("failed to encode message for indexer", "action", result.Action, "error", err)
		}
		raw = bz
	}
	app.pending = append(app.pending, indexer.NewReceipt(result.Height, result.Action, raw, result.Events, app.blockTime))
}

// flush hands committed receipts to the sink. Failures are logged and the
// remaining receipts are still offered.
func (app *App) flush(ctx context.Context, receipts []indexer.Receipt) {
	for _, receipt := range receipts {
		if err := app.sink.Index(ctx, receipt); err != nil {
			app.logger.Error("failed to index receipt", "action", receipt.Action, "height", receipt.Height, "error", err)
		}
	}
}

func (app *App) route(ctx context.Context, msg academytypes.Msg) (interface{}, error) {
	switch m := msg.(type) {
	case *academytypes.MsgRegisterInstructor:
		return app.msgServer.RegisterInstructor(ctx, m)
	case *academytypes.MsgCreateCourse:
		return app.msgServer.CreateCourse(ctx, m)
	case *academytypes.MsgAddMilestone:
		return app.msgServer.AddMilestone(ctx, m)
	case *academytypes.MsgEnroll:
		return app.msgServer.Enroll(ctx, m)
	case *academytypes.MsgCompleteMilestone:
		return app.msgServer.CompleteMilestone(ctx, m)
	case *academytypes.MsgUpdateProgress:
		return app.msgServer.UpdateProgress(ctx, m)
	case *academytypes.MsgCompleteCourse:
		return app.msgServer.CompleteCourse(ctx, m)
	case *academytypes.MsgClaimForfeitedStakes:
		return app.msgServer.ClaimForfeitedStakes(ctx, m)
	case *academytypes.MsgFundCourseRewards:
		return app.msgServer.FundCourseRewards(ctx, m)
	case *academytypes.MsgToggleCourseStatus:
		return app.msgServer.ToggleCourseStatus(ctx, m)
	case *academytypes.MsgSetPlatformFee:
		return app.msgServer.SetPlatformFee(ctx, m)
	case *academytypes.MsgWithdrawPlatformFees:
		return app.msgServer.WithdrawPlatformFees(ctx, m)
	default:
		return nil, academytypes.ErrInvalidInput.Wrapf("unrecognized academy message type: %T", msg)
	}
}

func (app *App) mint(ctx sdk.Context, recipient sdk.AccAddress, coins sdk.Coins) error {
	if err := app.BankKeeper.MintCoins(ctx, TreasuryModuleName, coins); err != nil {
		return err
	}
	return app.BankKeeper.SendCoinsFromModuleToAccount(ctx, TreasuryModuleName, recipient, coins)
}

// commitLocked commits the multistore and opens the next block. mu must be held.
func (app *App) commitLocked(ctx context.Context) storetypes.CommitID {
	_, span := telemetry.StartBlockSpan(ctx, app.height)
	defer span.End()

	commitID := app.cms.Commit()
	app.height = commitID.Version + 1
	app.blockTime = time.Now().UTC()
	app.metrics.RecordHeight(ctx, commitID.Version)
	app.logger.Debug("committed block", "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))
	return commitID
}

func (app *App) newContext(ctx context.Context, ms storetypes.MultiStore) sdk.Context {
	header := cmtproto.Header{
		ChainID: app.config.ChainID,
		Height:  app.height,
		Time:    app.blockTime,
	}
	return sdk.NewContext(ms, header, false, app.logger).WithContext(ctx)
}
