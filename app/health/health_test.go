package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

type fakeSource struct {
	height  int64
	version int64
	custody academytypes.QueryCustodyResponse
}

func (f *fakeSource) Height() int64 { return f.height }

func (f *fakeSource) LastCommitID() storetypes.CommitID {
	return storetypes.CommitID{Version: f.version, Hash: []byte{0xab}}
}

func (f *fakeSource) Query(ctx context.Context, fn func(ctx context.Context, qs academytypes.QueryServer) error) error {
	return fn(ctx, fakeQueryServer{custody: f.custody})
}

type fakeQueryServer struct {
	academytypes.QueryServer
	custody academytypes.QueryCustodyResponse
}

func (f fakeQueryServer) Custody(context.Context, *academytypes.QueryCustodyRequest) (*academytypes.QueryCustodyResponse, error) {
	out := f.custody
	return &out, nil
}

type HealthCheckTestSuite struct {
	suite.Suite
	source  *fakeSource
	checker *Checker
	clock   time.Time
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.source = &fakeSource{
		height:  5,
		version: 4,
		custody: academytypes.QueryCustodyResponse{
			Balance:             math.NewInt(1_500),
			EscrowedStakes:      math.NewInt(1_000),
			RewardPools:         math.NewInt(400),
			AccruedPlatformFees: math.NewInt(100),
		},
	}
	checker, err := NewChecker(log.NewNopLogger(), Config{MaxBlockStall: 10 * time.Second, CacheDuration: time.Second}, suite.source)
	suite.Require().NoError(err)

	suite.clock = time.Unix(1_700_000_000, 0)
	checker.now = func() time.Time { return suite.clock }
	suite.checker = checker
}

func (suite *HealthCheckTestSuite) TestHealthyRuntime() {
	health := suite.checker.Check(context.Background(), true)

	suite.Require().Equal(StatusHealthy, health.Status)
	suite.Require().Len(health.Components, 3)
	suite.Require().Equal("1500", health.Components["custody"].Metrics["balance"])
}

func (suite *HealthCheckTestSuite) TestUncommittedStore() {
	suite.source.version = 0

	health := suite.checker.Check(context.Background(), false)
	suite.Require().Equal(StatusUnhealthy, health.Status)
	suite.Require().Equal(StatusUnhealthy, health.Components["store"].Status)
}

func (suite *HealthCheckTestSuite) TestStalledBlocks() {
	suite.checker.Check(context.Background(), true)

	suite.clock = suite.clock.Add(6 * time.Second)
	health := suite.checker.Check(context.Background(), true)
	suite.Require().Equal(StatusDegraded, health.Components["blocks"].Status)
	suite.Require().Equal(StatusDegraded, health.Status)

	suite.clock = suite.clock.Add(6 * time.Second)
	health = suite.checker.Check(context.Background(), true)
	suite.Require().Equal(StatusUnhealthy, health.Components["blocks"].Status)

	// a new height resets the stall clock
	suite.source.height++
	health = suite.checker.Check(context.Background(), true)
	suite.Require().Equal(StatusHealthy, health.Components["blocks"].Status)
}

func (suite *HealthCheckTestSuite) TestCustodyShortfall() {
	suite.source.custody.Balance = math.NewInt(1_499)

	health := suite.checker.Check(context.Background(), true)
	suite.Require().Equal(StatusUnhealthy, health.Components["custody"].Status)
	suite.Require().Contains(health.Components["custody"].Message, "below obligations")
}

func (suite *HealthCheckTestSuite) TestReadyIsCached() {
	first := suite.checker.Check(context.Background(), false)

	suite.source.version = 0
	suite.Require().Same(first, suite.checker.Check(context.Background(), false))

	suite.clock = suite.clock.Add(2 * time.Second)
	suite.Require().Equal(StatusUnhealthy, suite.checker.Check(context.Background(), false).Status)
}

func (suite *HealthCheckTestSuite) TestEndpoints() {
	router := suite.checker.Handler()

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/health/detailed", http.StatusOK},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		suite.Require().Equal(tc.status, w.Code, tc.path)
		suite.Require().Equal("application/json", w.Header().Get("Content-Type"))
	}

	suite.source.custody.Balance = math.ZeroInt()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	suite.Require().Equal(http.StatusServiceUnavailable, w.Code)

	var body HealthCheck
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Equal(StatusUnhealthy, body.Status)
}

func TestNewChecker(t *testing.T) {
	_, err := NewChecker(log.NewNopLogger(), DefaultConfig(), nil)
	require.ErrorContains(t, err, "source is required")

	_, err = NewChecker(log.NewNopLogger(), Config{}, &fakeSource{})
	require.ErrorContains(t, err, "max block stall")

	c, err := NewChecker(log.NewNopLogger(), DefaultConfig(), &fakeSource{})
	require.NoError(t, err)
	require.NotNil(t, c)
}
