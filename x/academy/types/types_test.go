package types

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func testAddr(name string) string {
	b := make([]byte, 20)
	copy(b, name)
	return sdk.AccAddress(b).String()
}

func validCourse() Course {
	return Course{
		Id:               1,
		Instructor:       testAddr("instructor"),
		Title:            "Intro to Go",
		StakeAmount:      math.NewInt(1_000_000),
		RewardAmount:     math.NewInt(500_000),
		DurationBlocks:   100,
		MinCompletionPct: 80,
		IsActive:         true,
		CreatedAt:        10,
		RewardPool:       math.ZeroInt(),
	}
}

func TestCourseDeadline(t *testing.T) {
	c := validCourse()
	require.Equal(t, int64(110), c.Deadline())
	require.False(t, c.DurationElapsed(109))
	require.False(t, c.DurationElapsed(110))
	require.True(t, c.DurationElapsed(111))

	c.DurationBlocks = 0
	require.False(t, c.DurationElapsed(10))
	require.True(t, c.DurationElapsed(11))

	c.DurationBlocks = ^uint64(0)
	require.Equal(t, maxHeight, c.Deadline())
	require.False(t, c.DurationElapsed(maxHeight))
}

func TestCourseValidate(t *testing.T) {
	require.NoError(t, validCourse().Validate())

	c := validCourse()
	c.StakeAmount = math.ZeroInt()
	require.ErrorIs(t, c.Validate(), ErrInvalidStake)

	c = validCourse()
	c.RewardAmount = math.NewInt(-1)
	require.ErrorIs(t, c.Validate(), ErrInvalidReward)

	c = validCourse()
	c.MinCompletionPct = 101
	require.ErrorIs(t, c.Validate(), ErrInvalidPercent)

	c = validCourse()
	c.Instructor = "nope"
	require.ErrorIs(t, c.Validate(), ErrInvalidAddress)

	c = validCourse()
	c.RewardPool = math.NewInt(-5)
	require.ErrorIs(t, c.Validate(), ErrInvalidAmount)
}

func TestMilestoneSequenceCapacity(t *testing.T) {
	var seq MilestoneSequence
	var err error
	for i := 0; i < MaxMilestonesPerEnrollment; i++ {
		seq, err = seq.Append(uint64(i % 3))
		require.NoError(t, err)
	}
	require.Len(t, seq, MaxMilestonesPerEnrollment)

	full, err := seq.Append(99)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Len(t, full, MaxMilestonesPerEnrollment)
	require.NotContains(t, []uint64(full), uint64(99))
}

func TestMilestoneSequenceAppendDoesNotAlias(t *testing.T) {
	base := make(MilestoneSequence, 1, 4)
	base[0] = 1
	a, err := base.Append(2)
	require.NoError(t, err)
	b, err := base.Append(3)
	require.NoError(t, err)
	require.Equal(t, MilestoneSequence{1, 2}, a)
	require.Equal(t, MilestoneSequence{1, 3}, b)
}

func TestEnrollmentStatus(t *testing.T) {
	e := Enrollment{CourseId: 1, Student: testAddr("student"), Status: EnrollmentStatusEnrolled}
	require.NoError(t, e.CheckMutable())
	require.False(t, e.IsCompleted())
	require.False(t, e.Status.IsTerminal())

	e.Status = EnrollmentStatusCompleted
	require.True(t, e.IsCompleted())
	require.ErrorIs(t, e.CheckMutable(), ErrAlreadyCompleted)

	e.Status = EnrollmentStatusForfeited
	require.True(t, e.IsForfeited())
	require.True(t, e.Status.IsTerminal())
	require.ErrorIs(t, e.CheckMutable(), ErrEnrollmentForfeited)

	require.Equal(t, "forfeited", e.Status.String())
	require.Equal(t, "unspecified", EnrollmentStatus(9).String())
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.Equal(t, uint32(5), DefaultParams().PlatformFeePct)

	p := DefaultParams()
	p.PlatformFeePct = 21
	require.ErrorIs(t, p.Validate(), ErrFeeTooHigh)

	p = DefaultParams()
	p.PlatformFeePct = 20
	require.NoError(t, p.Validate())

	p.Denom = "!"
	require.ErrorIs(t, p.Validate(), ErrInvalidInput)
}
