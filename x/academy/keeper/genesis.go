package keeper

import (
	"context"
	"fmt"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// InitGenesis initializes the academy module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid academy genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	k.SetNextCourseID(ctx, genState.NextCourseId)
	if !genState.AccruedPlatformFees.IsNil() {
		k.SetAccruedPlatformFees(ctx, genState.AccruedPlatformFees)
	}

	for _, profile := range genState.Instructors {
		if err := k.SetInstructor(ctx, profile); err != nil {
			return fmt.Errorf("failed to set instructor %s: %w", profile.Address, err)
		}
	}
	for _, course := range genState.Courses {
		k.SetCourse(ctx, course)
	}
	for _, milestone := range genState.Milestones {
		k.SetMilestone(ctx, milestone)
	}
	for _, enrollment := range genState.Enrollments {
		if err := k.SetEnrollment(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to set enrollment %d/%s: %w", enrollment.CourseId, enrollment.Student, err)
		}
	}
	for _, completion := range genState.Completions {
		if err := k.SetMilestoneCompletion(ctx, completion); err != nil {
			return fmt.Errorf("failed to set completion of milestone %d: %w", completion.MilestoneId, err)
		}
	}

	return nil
}

// ExportGenesis returns the academy module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:              k.GetParams(ctx),
		NextCourseId:        k.GetNextCourseID(ctx),
		AccruedPlatformFees: k.GetAccruedPlatformFees(ctx),
		Instructors:         k.GetAllInstructors(ctx),
		Courses:             k.GetAllCourses(ctx),
		Milestones:          k.GetAllMilestones(ctx),
		Enrollments:         k.GetAllEnrollments(ctx),
		Completions:         k.GetAllMilestoneCompletions(ctx),
	}
}
