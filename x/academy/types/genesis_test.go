package types

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenesisIsValid(t *testing.T) {
	gs := DefaultGenesis()
	require.NoError(t, gs.Validate())
	require.Equal(t, uint64(1), gs.NextCourseId)
	require.True(t, gs.AccruedPlatformFees.IsZero())
}

func TestGenesisValidate(t *testing.T) {
	student := testAddr("student")

	populated := func() *GenesisState {
		gs := DefaultGenesis()
		gs.NextCourseId = 2
		gs.Courses = []Course{validCourse()}
		gs.Milestones = []Milestone{{CourseId: 1, MilestoneId: 1, Title: "Week 1", Points: 10}}
		gs.Enrollments = []Enrollment{{
			Student:    student,
			CourseId:   1,
			EnrolledAt: 11,
			StakePaid:  math.NewInt(1_000_000),
			Status:     EnrollmentStatusEnrolled,
		}}
		gs.Completions = []MilestoneCompletion{{Student: student, CourseId: 1, MilestoneId: 1, PointsEarned: 10}}
		return gs
	}

	require.NoError(t, populated().Validate())

	completed := populated()
	completed.Enrollments[0].Status = EnrollmentStatusCompleted
	completed.Enrollments[0].CompletedAt = 30
	completed.Enrollments[0].SettledAt = 30
	require.NoError(t, completed.Validate())

	tests := []struct {
		name   string
		mutate func(*GenesisState)
	}{
		{"zero next id", func(gs *GenesisState) { gs.NextCourseId = 0 }},
		{"course id not below next", func(gs *GenesisState) { gs.NextCourseId = 1 }},
		{"duplicate course", func(gs *GenesisState) { gs.NextCourseId = 5; gs.Courses = append(gs.Courses, validCourse()) }},
		{"negative fees", func(gs *GenesisState) { gs.AccruedPlatformFees = math.NewInt(-1) }},
		{"milestone unknown course", func(gs *GenesisState) { gs.Milestones[0].CourseId = 9 }},
		{"duplicate enrollment", func(gs *GenesisState) { gs.Enrollments = append(gs.Enrollments, gs.Enrollments[0]) }},
		{"unspecified status", func(gs *GenesisState) { gs.Enrollments[0].Status = EnrollmentStatusUnspecified }},
		{"progress over 100", func(gs *GenesisState) { gs.Enrollments[0].ProgressPct = 101 }},
		{"orphan completion", func(gs *GenesisState) { gs.Completions[0].Student = testAddr("other") }},
		{"completion of unknown milestone", func(gs *GenesisState) { gs.Completions[0].MilestoneId = 7 }},
		{"nil stake", func(gs *GenesisState) { gs.Enrollments[0].StakePaid = math.Int{} }},
		{"zero stake", func(gs *GenesisState) { gs.Enrollments[0].StakePaid = math.ZeroInt() }},
		{"completed without height", func(gs *GenesisState) { gs.Enrollments[0].Status = EnrollmentStatusCompleted }},
		{"open with completion height", func(gs *GenesisState) { gs.Enrollments[0].CompletedAt = 20 }},
		{"fee too high", func(gs *GenesisState) { gs.Params.PlatformFeePct = 50 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := populated()
			tt.mutate(gs)
			require.Error(t, gs.Validate())
		})
	}
}
