package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// GetCourse returns a course by ID.
func (k Keeper) GetCourse(ctx context.Context, courseID uint64) (types.Course, bool) {
	bz := k.getStore(ctx).Get(CourseKey(courseID))
	if bz == nil {
		return types.Course{}, false
	}
	var course types.Course
	k.mustUnmarshal(bz, &course)
	return course, true
}

// SetCourse stores a course.
func (k Keeper) SetCourse(ctx context.Context, course types.Course) {
	k.getStore(ctx).Set(CourseKey(course.Id), k.mustMarshal(course))
}

// IterateCourses walks courses in ID order until cb returns true.
func (k Keeper) IterateCourses(ctx context.Context, cb func(types.Course) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), CourseKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var course types.Course
		k.mustUnmarshal(iterator.Value(), &course)
		if cb(course) {
			return
		}
	}
}

// GetAllCourses returns every course in ID order.
func (k Keeper) GetAllCourses(ctx context.Context) []types.Course {
	courses := []types.Course{}
	k.IterateCourses(ctx, func(c types.Course) bool {
		courses = append(courses, c)
		return false
	})
	return courses
}

// updateCourse applies fn to the stored course. Settlement only touches the
// counters and reward pool through this path.
func (k Keeper) updateCourse(ctx context.Context, courseID uint64, fn func(*types.Course)) (types.Course, error) {
	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.Course{}, types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	fn(&course)
	k.SetCourse(ctx, course)
	return course, nil
}

// GetNextCourseID returns the ID the next created course will receive.
func (k Keeper) GetNextCourseID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(NextCourseIDKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// SetNextCourseID stores the next course ID.
func (k Keeper) SetNextCourseID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(NextCourseIDKey, sdk.Uint64ToBigEndian(id))
}

// GetInstructor returns an instructor profile.
func (k Keeper) GetInstructor(ctx context.Context, instructor sdk.AccAddress) (types.InstructorProfile, bool) {
	bz := k.getStore(ctx).Get(InstructorKey(instructor))
	if bz == nil {
		return types.InstructorProfile{}, false
	}
	var profile types.InstructorProfile
	k.mustUnmarshal(bz, &profile)
	return profile, true
}

// SetInstructor stores an instructor profile keyed by its address.
func (k Keeper) SetInstructor(ctx context.Context, profile types.InstructorProfile) error {
	addr, err := sdk.AccAddressFromBech32(profile.Address)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("instructor: %v", err)
	}
	k.getStore(ctx).Set(InstructorKey(addr), k.mustMarshal(profile))
	return nil
}

// GetAllInstructors returns every instructor profile.
func (k Keeper) GetAllInstructors(ctx context.Context) []types.InstructorProfile {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), InstructorKeyPrefix)
	defer iterator.Close()

	profiles := []types.InstructorProfile{}
	for ; iterator.Valid(); iterator.Next() {
		var profile types.InstructorProfile
		k.mustUnmarshal(iterator.Value(), &profile)
		profiles = append(profiles, profile)
	}
	return profiles
}

// GetMilestone returns a milestone of a course.
func (k Keeper) GetMilestone(ctx context.Context, courseID, milestoneID uint64) (types.Milestone, bool) {
	bz := k.getStore(ctx).Get(MilestoneKey(courseID, milestoneID))
	if bz == nil {
		return types.Milestone{}, false
	}
	var milestone types.Milestone
	k.mustUnmarshal(bz, &milestone)
	return milestone, true
}

// SetMilestone stores a milestone.
func (k Keeper) SetMilestone(ctx context.Context, milestone types.Milestone) {
	k.getStore(ctx).Set(MilestoneKey(milestone.CourseId, milestone.MilestoneId), k.mustMarshal(milestone))
}

// GetAllMilestones returns every milestone ordered by (course, milestone).
func (k Keeper) GetAllMilestones(ctx context.Context) []types.Milestone {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), MilestoneKeyPrefix)
	defer iterator.Close()

	milestones := []types.Milestone{}
	for ; iterator.Valid(); iterator.Next() {
		var milestone types.Milestone
		k.mustUnmarshal(iterator.Value(), &milestone)
		milestones = append(milestones, milestone)
	}
	return milestones
}

// RegisterInstructorProfile creates or updates the caller's profile. Counters
// and the registration height of an existing profile are kept.
func (k Keeper) RegisterInstructorProfile(ctx context.Context, caller sdk.AccAddress, name, bio string) (types.InstructorProfile, error) {
	if err := types.ValidateProfileText(name, bio); err != nil {
		return types.InstructorProfile{}, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	profile, found := k.GetInstructor(ctx, caller)
	if !found {
		profile = types.InstructorProfile{
			Address:      caller.String(),
			RegisteredAt: sdkCtx.BlockHeight(),
		}
	}
	profile.Name = name
	profile.Bio = bio

	if err := k.SetInstructor(ctx, profile); err != nil {
		return types.InstructorProfile{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInstructorRegistered,
			sdk.NewAttribute(types.AttributeKeyInstructor, profile.Address),
		),
	)

	return profile, nil
}

// CreateCourse publishes a new active course owned by caller and returns its ID.
func (k Keeper) CreateCourse(
	ctx context.Context,
	caller sdk.AccAddress,
	title, description string,
	stake, reward math.Int,
	durationBlocks uint64,
	minCompletionPct uint32,
) (uint64, error) {
	if stake.IsNil() || !stake.IsPositive() {
		return 0, types.ErrInvalidStake
	}
	if reward.IsNil() || !reward.IsPositive() {
		return 0, types.ErrInvalidReward
	}
	if err := types.ValidatePercent(minCompletionPct); err != nil {
		return 0, err
	}
	if err := types.ValidateCourseText(title, description); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	courseID := k.GetNextCourseID(ctx)

	course := types.Course{
		Id:               courseID,
		Instructor:       caller.String(),
		Title:            title,
		Description:      description,
		StakeAmount:      stake,
		RewardAmount:     reward,
		DurationBlocks:   durationBlocks,
		MinCompletionPct: minCompletionPct,
		IsActive:         true,
		CreatedAt:        sdkCtx.BlockHeight(),
		RewardPool:       math.ZeroInt(),
	}
	k.SetCourse(ctx, course)
	k.SetNextCourseID(ctx, courseID+1)
	k.bumpInstructorStats(ctx, caller, 1, 0)

	k.metrics.CoursesCreated.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCourseCreated,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyInstructor, course.Instructor),
			sdk.NewAttribute(types.AttributeKeyStake, stake.String()),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		),
	)

	return courseID, nil
}

// AddMilestone stores a milestone definition on a course owned by caller.
// An existing milestone with the same ID is replaced.
func (k Keeper) AddMilestone(
	ctx context.Context,
	caller sdk.AccAddress,
	courseID, milestoneID uint64,
	title, description string,
	points uint64,
	required bool,
) error {
	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	if course.Instructor != caller.String() {
		return types.ErrUnauthorized.Wrapf("course %d", courseID)
	}
	if err := types.ValidateCourseText(title, description); err != nil {
		return err
	}

	k.SetMilestone(ctx, types.Milestone{
		CourseId:    courseID,
		MilestoneId: milestoneID,
		Title:       title,
		Description: description,
		Points:      points,
		Required:    required,
	})

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMilestoneAdded,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyMilestoneID, fmt.Sprintf("%d", milestoneID)),
			sdk.NewAttribute(types.AttributeKeyPoints, fmt.Sprintf("%d", points)),
		),
	)
	return nil
}

// bumpInstructorStats adds to the profile counters of instructor. A missing
// profile is not an error: statistics are best effort.
func (k Keeper) bumpInstructorStats(ctx context.Context, instructor sdk.AccAddress, courses, students uint64) {
	profile, found := k.GetInstructor(ctx, instructor)
	if !found {
		k.Logger(ctx).Debug("no instructor profile, skipping stats", "instructor", instructor.String())
		return
	}
	profile.TotalCourses += courses
	profile.TotalStudents += students
	if err := k.SetInstructor(ctx, profile); err != nil {
		k.Logger(ctx).Debug("instructor stats not updated", "instructor", instructor.String(), "error", err)
	}
}
