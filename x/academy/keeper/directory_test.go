package keeper_test

import (
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/stakedlearn/stakedlearn/testutil/keeper"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

func TestRegisterInstructorProfileKeepsCounters(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")

	profile, err := f.Keeper.RegisterInstructorProfile(f.Ctx, instructor, "Ada", "teaches Go")
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.RegisteredAt)

	_, err = f.Keeper.CreateCourse(f.Ctx, instructor, "Go 101", "", math.NewInt(10), math.NewInt(5), 10, 50)
	require.NoError(t, err)

	f.AdvanceHeight(5)
	profile, err = f.Keeper.RegisterInstructorProfile(f.Ctx, instructor, "Ada L.", "")
	require.NoError(t, err)
	require.Equal(t, "Ada L.", profile.Name)
	require.Equal(t, uint64(1), profile.TotalCourses)
	require.Equal(t, int64(1), profile.RegisteredAt)

	_, err = f.Keeper.RegisterInstructorProfile(f.Ctx, instructor, strings.Repeat("x", types.MaxNameLength+1), "")
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestCreateCourseValidation(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")

	_, err := f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.ZeroInt(), math.NewInt(5), 10, 50)
	require.ErrorIs(t, err, types.ErrInvalidStake)

	_, err = f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.NewInt(10), math.ZeroInt(), 10, 50)
	require.ErrorIs(t, err, types.ErrInvalidReward)

	_, err = f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.NewInt(10), math.NewInt(5), 10, 101)
	require.ErrorIs(t, err, types.ErrInvalidPercent)

	require.Equal(t, uint64(1), f.Keeper.GetNextCourseID(f.Ctx))
}

func TestCreateCourseIDsAreSequential(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")

	for want := uint64(1); want <= 5; want++ {
		id, err := f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.NewInt(10), math.NewInt(5), 10, 50)
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
	require.Equal(t, uint64(6), f.Keeper.GetNextCourseID(f.Ctx))

	course, found := f.Keeper.GetCourse(f.Ctx, 3)
	require.True(t, found)
	require.True(t, course.IsActive)
	require.Equal(t, instructor.String(), course.Instructor)
	require.Equal(t, int64(1), course.CreatedAt)
	require.True(t, course.RewardPool.IsZero())
	require.Len(t, f.Keeper.GetAllCourses(f.Ctx), 5)

	_, found = f.Keeper.GetCourse(f.Ctx, 6)
	require.False(t, found)
}

func TestCreateCourseWithoutProfileSucceeds(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("no-profile")

	_, err := f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.NewInt(10), math.NewInt(5), 10, 50)
	require.NoError(t, err)

	_, found := f.Keeper.GetInstructor(f.Ctx, instructor)
	require.False(t, found)
}

func TestAddMilestone(t *testing.T) {
	f := keepertest.NewAcademyFixture(t)
	instructor := keepertest.TestAddr("instructor")
	other := keepertest.TestAddr("other")

	courseID, err := f.Keeper.CreateCourse(f.Ctx, instructor, "Go", "", math.NewInt(10), math.NewInt(5), 10, 50)
	require.NoError(t, err)

	err = f.Keeper.AddMilestone(f.Ctx, instructor, 99, 1, "Week 1", "", 10, true)
	require.ErrorIs(t, err, types.ErrCourseNotFound)

	err = f.Keeper.AddMilestone(f.Ctx, other, courseID, 1, "Week 1", "", 10, true)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, f.Keeper.AddMilestone(f.Ctx, instructor, courseID, 1, "Week 1", "", 10, true))
	require.NoError(t, f.Keeper.AddMilestone(f.Ctx, instructor, courseID, 1, "Week 1 (revised)", "", 15, false))

	milestone, found := f.Keeper.GetMilestone(f.Ctx, courseID, 1)
	require.True(t, found)
	require.Equal(t, "Week 1 (revised)", milestone.Title)
	require.Equal(t, uint64(15), milestone.Points)
	require.False(t, milestone.Required)
	require.Len(t, f.Keeper.GetAllMilestones(f.Ctx), 1)
}
