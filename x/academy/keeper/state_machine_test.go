package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"pgregory.net/rapid"

	keepertest "github.com/stakedlearn/stakedlearn/testutil/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// TestCustodyStateMachine drives random operation sequences and checks that
// value is conserved and every invariant holds after each step.
func TestCustodyStateMachine(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := keepertest.NewAcademyFixture(t)
		instructors := []sdk.AccAddress{keepertest.TestAddr("inst-a"), keepertest.TestAddr("inst-b")}
		students := []sdk.AccAddress{keepertest.TestAddr("stu-a"), keepertest.TestAddr("stu-b"), keepertest.TestAddr("stu-c")}

		minted := math.ZeroInt()
		for _, addr := range append(append([]sdk.AccAddress{}, instructors...), students...) {
			f.FundAccount(t, addr, 1_000_000)
			minted = minted.Add(math.NewInt(1_000_000))
		}
		accounts := append(append([]sdk.AccAddress{f.Authority}, instructors...), students...)

		totalSupply := func() math.Int {
			sum := f.CustodyBalance()
			for _, addr := range accounts {
				sum = sum.Add(f.Balance(addr))
			}
			return sum
		}

		courseIDs := []uint64{}
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 8).Draw(rt, "op") {
			case 0:
				inst := rapid.SampledFrom(instructors).Draw(rt, "instructor")
				id, err := f.Keeper.CreateCourse(f.Ctx, inst, "Course", "",
					math.NewInt(rapid.Int64Range(1, 50_000).Draw(rt, "stake")),
					math.NewInt(rapid.Int64Range(1, 20_000).Draw(rt, "reward")),
					rapid.Uint64Range(0, 20).Draw(rt, "duration"),
					rapid.Uint32Range(0, 100).Draw(rt, "minPct"))
				if err != nil {
					rt.Fatalf("create course: %v", err)
				}
				if want := uint64(len(courseIDs) + 1); id != want {
					rt.Fatalf("course id %d, want %d", id, want)
				}
				courseIDs = append(courseIDs, id)
			case 1:
				if len(courseIDs) == 0 {
					continue
				}
				_, _ = f.Keeper.Enroll(f.Ctx, rapid.SampledFrom(students).Draw(rt, "student"), rapid.SampledFrom(courseIDs).Draw(rt, "course"))
			case 2:
				if len(courseIDs) == 0 {
					continue
				}
				_ = f.Keeper.SetProgress(f.Ctx, rapid.SampledFrom(instructors).Draw(rt, "caller"),
					rapid.SampledFrom(students).Draw(rt, "student"), rapid.SampledFrom(courseIDs).Draw(rt, "course"),
					rapid.Uint32Range(0, 100).Draw(rt, "pct"))
			case 3:
				if len(courseIDs) == 0 {
					continue
				}
				_, _ = f.Keeper.CompleteCourse(f.Ctx, rapid.SampledFrom(students).Draw(rt, "student"), rapid.SampledFrom(courseIDs).Draw(rt, "course"))
			case 4:
				if len(courseIDs) == 0 {
					continue
				}
				_, _ = f.Keeper.ClaimForfeitedStakes(f.Ctx, rapid.SampledFrom(instructors).Draw(rt, "caller"), rapid.SampledFrom(courseIDs).Draw(rt, "course"))
			case 5:
				if len(courseIDs) == 0 {
					continue
				}
				_, _ = f.Keeper.FundCourseRewards(f.Ctx, rapid.SampledFrom(instructors).Draw(rt, "funder"),
					rapid.SampledFrom(courseIDs).Draw(rt, "course"), math.NewInt(rapid.Int64Range(1, 50_000).Draw(rt, "amount")))
			case 6:
				_ = f.Keeper.SetPlatformFee(f.Ctx, f.Authority, rapid.Uint32Range(0, types.MaxPlatformFeePct).Draw(rt, "fee"))
			case 7:
				_, _ = f.Keeper.WithdrawPlatformFees(f.Ctx, f.Authority, f.Authority)
			case 8:
				f.AdvanceHeight(rapid.Int64Range(1, 10).Draw(rt, "blocks"))
			}

			if supply := totalSupply(); !supply.Equal(minted) {
				rt.Fatalf("value not conserved: %s != %s", supply, minted)
			}
			if msg, broken := keeper.AllInvariants(*f.Keeper)(f.Ctx); broken {
				rt.Fatalf("invariant broken: %s", msg)
			}
		}
	})
}
