package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// RegisterInvariants registers all academy invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "custody-balance", CustodyBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "course-counters", CourseCountersInvariant(k))
	ir.RegisterRoute(types.ModuleName, "enrollment-state", EnrollmentStateInvariant(k))
	ir.RegisterRoute(types.ModuleName, "course-ids", CourseIDsInvariant(k))
}

// AllInvariants runs all invariants of the academy module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			CustodyBalanceInvariant(k),
			CourseCountersInvariant(k),
			EnrollmentStateInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return CourseIDsInvariant(k)(ctx)
	}
}

// CustodyBalanceInvariant checks that the module account covers every open
// stake, every reward pool and the accrued platform fees.
func CustodyBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		stakes, pools := k.custodyObligations(ctx)
		fees := k.GetAccruedPlatformFees(ctx)
		owed := stakes.Add(pools).Add(fees)
		balance := k.CustodyBalance(ctx)

		broken := balance.LT(owed)
		return sdk.FormatInvariant(
			types.ModuleName, "custody-balance",
			fmt.Sprintf("custody balance %s, owed %s (stakes %s, reward pools %s, fees %s)\n",
				balance, owed, stakes, pools, fees),
		), broken
	}
}

// CourseCountersInvariant checks that course counters match the enrollment records.
func CourseCountersInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IterateCourses(ctx, func(c types.Course) bool {
			var enrolled, completed uint64
			k.IterateCourseEnrollments(ctx, c.Id, func(e types.Enrollment) bool {
				enrolled++
				if e.IsCompleted() {
					completed++
				}
				return false
			})
			if enrolled != c.TotalEnrolled || completed != c.TotalCompleted {
				count++
				msg += fmt.Sprintf("course %d: counters %d/%d, records %d/%d\n",
					c.Id, c.TotalEnrolled, c.TotalCompleted, enrolled, completed)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "course-counters",
			fmt.Sprintf("found %d courses with mismatched counters\n%s", count, msg),
		), broken
	}
}

// EnrollmentStateInvariant checks per-enrollment bounds and settlement fields.
func EnrollmentStateInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for _, e := range k.GetAllEnrollments(ctx) {
			var problem string
			switch {
			case e.ProgressPct > 100:
				problem = "progress above 100"
			case len(e.MilestonesCompleted) > types.MaxMilestonesPerEnrollment:
				problem = "milestone sequence over capacity"
			case e.StakePaid.IsNil() || !e.StakePaid.IsPositive():
				problem = "non-positive stake"
			case e.IsCompleted() && e.CompletedAt == 0:
				problem = "completed without completion height"
			case !e.IsCompleted() && e.CompletedAt != 0:
				problem = "completion height on open enrollment"
			}
			if problem != "" {
				count++
				msg += fmt.Sprintf("enrollment %d/%s: %s\n", e.CourseId, e.Student, problem)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "enrollment-state",
			fmt.Sprintf("found %d invalid enrollments\n%s", count, msg),
		), broken
	}
}

// CourseIDsInvariant checks that course IDs are dense from 1 and below the counter.
func CourseIDsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		next := k.GetNextCourseID(ctx)
		expected := uint64(1)
		var msg string

		k.IterateCourses(ctx, func(c types.Course) bool {
			if c.Id != expected {
				msg = fmt.Sprintf("expected course %d, found %d\n", expected, c.Id)
				return true
			}
			expected++
			return false
		})
		if msg == "" && expected != next {
			msg = fmt.Sprintf("next course id %d, but %d courses exist\n", next, expected-1)
		}

		broken := msg != ""
		return sdk.FormatInvariant(types.ModuleName, "course-ids", msg), broken
	}
}
