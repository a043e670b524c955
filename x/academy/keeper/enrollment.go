package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// GetEnrollment returns the enrollment of student in a course.
func (k Keeper) GetEnrollment(ctx context.Context, courseID uint64, student sdk.AccAddress) (types.Enrollment, bool) {
	bz := k.getStore(ctx).Get(EnrollmentKey(courseID, student))
	if bz == nil {
		return types.Enrollment{}, false
	}
	var enrollment types.Enrollment
	k.mustUnmarshal(bz, &enrollment)
	return enrollment, true
}

// HasEnrollment reports whether student has ever enrolled in the course.
func (k Keeper) HasEnrollment(ctx context.Context, courseID uint64, student sdk.AccAddress) bool {
	return k.getStore(ctx).Has(EnrollmentKey(courseID, student))
}

// SetEnrollment stores an enrollment.
func (k Keeper) SetEnrollment(ctx context.Context, enrollment types.Enrollment) error {
	student, err := sdk.AccAddressFromBech32(enrollment.Student)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("student: %v", err)
	}
	k.getStore(ctx).Set(EnrollmentKey(enrollment.CourseId, student), k.mustMarshal(enrollment))
	return nil
}

// IterateCourseEnrollments walks the enrollments of one course until cb returns true.
func (k Keeper) IterateCourseEnrollments(ctx context.Context, courseID uint64, cb func(types.Enrollment) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), CourseEnrollmentsPrefix(courseID))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var enrollment types.Enrollment
		k.mustUnmarshal(iterator.Value(), &enrollment)
		if cb(enrollment) {
			return
		}
	}
}

// GetCourseEnrollments returns all enrollments of a course.
func (k Keeper) GetCourseEnrollments(ctx context.Context, courseID uint64) []types.Enrollment {
	enrollments := []types.Enrollment{}
	k.IterateCourseEnrollments(ctx, courseID, func(e types.Enrollment) bool {
		enrollments = append(enrollments, e)
		return false
	})
	return enrollments
}

// GetAllEnrollments returns every enrollment ordered by course.
func (k Keeper) GetAllEnrollments(ctx context.Context) []types.Enrollment {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), EnrollmentKeyPrefix)
	defer iterator.Close()

	enrollments := []types.Enrollment{}
	for ; iterator.Valid(); iterator.Next() {
		var enrollment types.Enrollment
		k.mustUnmarshal(iterator.Value(), &enrollment)
		enrollments = append(enrollments, enrollment)
	}
	return enrollments
}

// GetMilestoneCompletion returns the completion record of a milestone.
func (k Keeper) GetMilestoneCompletion(ctx context.Context, courseID uint64, student sdk.AccAddress, milestoneID uint64) (types.MilestoneCompletion, bool) {
	bz := k.getStore(ctx).Get(CompletionKey(courseID, student, milestoneID))
	if bz == nil {
		return types.MilestoneCompletion{}, false
	}
	var completion types.MilestoneCompletion
	k.mustUnmarshal(bz, &completion)
	return completion, true
}

// SetMilestoneCompletion stores a completion record, replacing any previous one.
func (k Keeper) SetMilestoneCompletion(ctx context.Context, completion types.MilestoneCompletion) error {
	student, err := sdk.AccAddressFromBech32(completion.Student)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("student: %v", err)
	}
	k.getStore(ctx).Set(CompletionKey(completion.CourseId, student, completion.MilestoneId), k.mustMarshal(completion))
	return nil
}

// GetAllMilestoneCompletions returns every completion record.
func (k Keeper) GetAllMilestoneCompletions(ctx context.Context) []types.MilestoneCompletion {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), CompletionKeyPrefix)
	defer iterator.Close()

	completions := []types.MilestoneCompletion{}
	for ; iterator.Valid(); iterator.Next() {
		var completion types.MilestoneCompletion
		k.mustUnmarshal(iterator.Value(), &completion)
		completions = append(completions, completion)
	}
	return completions
}

// Enroll locks the course stake in custody and creates the enrollment. Nothing
// is written when the stake transfer is rejected.
func (k Keeper) Enroll(ctx context.Context, student sdk.AccAddress, courseID uint64) (types.Enrollment, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.Enrollment{}, types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	if !course.IsActive {
		return types.Enrollment{}, types.ErrCourseInactive.Wrapf("course %d", courseID)
	}
	if k.HasEnrollment(ctx, courseID, student) {
		return types.Enrollment{}, types.ErrAlreadyEnrolled.Wrapf("course %d, student %s", courseID, student)
	}

	enrollment := types.Enrollment{
		Student:             student.String(),
		CourseId:            courseID,
		EnrolledAt:          sdkCtx.BlockHeight(),
		StakePaid:           course.StakeAmount,
		ProgressPct:         0,
		Status:              types.EnrollmentStatusEnrolled,
		MilestonesCompleted: types.MilestoneSequence{},
	}

	cacheCtx, writeFn := sdkCtx.CacheContext()

	stake := k.coins(cacheCtx, course.StakeAmount)
	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, student, types.ModuleName, stake); err != nil {
		return types.Enrollment{}, types.ErrTransferFailed.Wrapf("lock stake %s: %v", stake, err)
	}
	if err := k.SetEnrollment(cacheCtx, enrollment); err != nil {
		return types.Enrollment{}, err
	}
	if _, err := k.updateCourse(cacheCtx, courseID, func(c *types.Course) { c.TotalEnrolled++ }); err != nil {
		return types.Enrollment{}, err
	}
	if instructor, err := sdk.AccAddressFromBech32(course.Instructor); err == nil {
		k.bumpInstructorStats(cacheCtx, instructor, 0, 1)
	}

	writeFn()

	k.metrics.Enrollments.Inc()
	k.metrics.observeFlow(flowStakeIn, course.StakeAmount)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEnrolled,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyStudent, enrollment.Student),
			sdk.NewAttribute(types.AttributeKeyStake, course.StakeAmount.String()),
		),
	)

	return enrollment, nil
}

// RecordMilestone credits a milestone to the student's enrollment. Progress is
// not derived from milestones; the same milestone may be credited again.
func (k Keeper) RecordMilestone(ctx context.Context, student sdk.AccAddress, courseID, milestoneID uint64) (types.Enrollment, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	enrollment, found := k.GetEnrollment(ctx, courseID, student)
	if !found {
		return types.Enrollment{}, types.ErrNotEnrolled.Wrapf("course %d, student %s", courseID, student)
	}
	if err := enrollment.CheckMutable(); err != nil {
		return types.Enrollment{}, err
	}
	milestone, found := k.GetMilestone(ctx, courseID, milestoneID)
	if !found {
		return types.Enrollment{}, types.ErrMilestoneNotFound.Wrapf("course %d, milestone %d", courseID, milestoneID)
	}

	seq, err := enrollment.MilestonesCompleted.Append(milestoneID)
	if err != nil {
		return types.Enrollment{}, err
	}
	enrollment.MilestonesCompleted = seq

	if err := k.SetEnrollment(ctx, enrollment); err != nil {
		return types.Enrollment{}, err
	}
	if err := k.SetMilestoneCompletion(ctx, types.MilestoneCompletion{
		Student:      enrollment.Student,
		CourseId:     courseID,
		MilestoneId:  milestoneID,
		CompletedAt:  sdkCtx.BlockHeight(),
		PointsEarned: milestone.Points,
	}); err != nil {
		return types.Enrollment{}, err
	}

	k.metrics.MilestonesCompleted.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMilestoneCompleted,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyStudent, enrollment.Student),
			sdk.NewAttribute(types.AttributeKeyMilestoneID, fmt.Sprintf("%d", milestoneID)),
			sdk.NewAttribute(types.AttributeKeyPoints, fmt.Sprintf("%d", milestone.Points)),
		),
	)

	return enrollment, nil
}

// SetProgress overwrites the progress of a student. Only the course instructor
// may call it and lowering progress is allowed.
func (k Keeper) SetProgress(ctx context.Context, caller, student sdk.AccAddress, courseID uint64, pct uint32) error {
	if err := types.ValidatePercent(pct); err != nil {
		return err
	}
	course, found := k.GetCourse(ctx, courseID)
	if !found {
		return types.ErrCourseNotFound.Wrapf("course %d", courseID)
	}
	if course.Instructor != caller.String() {
		return types.ErrUnauthorized.Wrapf("course %d", courseID)
	}
	enrollment, found := k.GetEnrollment(ctx, courseID, student)
	if !found {
		return types.ErrNotEnrolled.Wrapf("course %d, student %s", courseID, student)
	}
	if err := enrollment.CheckMutable(); err != nil {
		return err
	}

	enrollment.ProgressPct = pct
	if err := k.SetEnrollment(ctx, enrollment); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProgressUpdated,
			sdk.NewAttribute(types.AttributeKeyCourseID, fmt.Sprintf("%d", courseID)),
			sdk.NewAttribute(types.AttributeKeyStudent, enrollment.Student),
			sdk.NewAttribute(types.AttributeKeyProgressPct, fmt.Sprintf("%d", pct)),
		),
	)
	return nil
}
