package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// GenesisState is the full exported state of the academy module.
type GenesisState struct {
	Params              Params                `json:"params"`
	NextCourseId        uint64                `json:"next_course_id"`
	AccruedPlatformFees math.Int              `json:"accrued_platform_fees"`
	Instructors         []InstructorProfile   `json:"instructors"`
	Courses             []Course              `json:"courses"`
	Milestones          []Milestone           `json:"milestones"`
	Enrollments         []Enrollment          `json:"enrollments"`
	Completions         []MilestoneCompletion `json:"completions"`
}

// DefaultGenesis returns the default genesis state for the academy module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:              DefaultParams(),
		NextCourseId:        1,
		AccruedPlatformFees: math.ZeroInt(),
		Instructors:         []InstructorProfile{},
		Courses:             []Course{},
		Milestones:          []Milestone{},
		Enrollments:         []Enrollment{},
		Completions:         []MilestoneCompletion{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.NextCourseId == 0 {
		return ErrInvalidGenesis.Wrap("next course id must be positive")
	}
	if !gs.AccruedPlatformFees.IsNil() && gs.AccruedPlatformFees.IsNegative() {
		return ErrInvalidGenesis.Wrap("accrued platform fees cannot be negative")
	}

	instructors := make(map[string]struct{}, len(gs.Instructors))
	for _, p := range gs.Instructors {
		if err := ValidateAddress(p.Address, "instructor"); err != nil {
			return err
		}
		if _, dup := instructors[p.Address]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate instructor %s", p.Address)
		}
		instructors[p.Address] = struct{}{}
	}

	courses := make(map[uint64]struct{}, len(gs.Courses))
	for _, c := range gs.Courses {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Id >= gs.NextCourseId {
			return ErrInvalidGenesis.Wrapf("course %d is not below next course id %d", c.Id, gs.NextCourseId)
		}
		if _, dup := courses[c.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate course %d", c.Id)
		}
		courses[c.Id] = struct{}{}
	}

	milestones := make(map[string]struct{}, len(gs.Milestones))
	for _, m := range gs.Milestones {
		if _, ok := courses[m.CourseId]; !ok {
			return ErrInvalidGenesis.Wrapf("milestone %d references unknown course %d", m.MilestoneId, m.CourseId)
		}
		key := fmt.Sprintf("%d/%d", m.CourseId, m.MilestoneId)
		if _, dup := milestones[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate milestone %s", key)
		}
		milestones[key] = struct{}{}
	}

	enrollments := make(map[string]struct{}, len(gs.Enrollments))
	for _, e := range gs.Enrollments {
		if _, ok := courses[e.CourseId]; !ok {
			return ErrInvalidGenesis.Wrapf("enrollment references unknown course %d", e.CourseId)
		}
		if err := ValidateAddress(e.Student, "student"); err != nil {
			return err
		}
		if e.Status == EnrollmentStatusUnspecified || e.Status > EnrollmentStatusForfeited {
			return ErrInvalidGenesis.Wrapf("enrollment %d/%s has invalid status %d", e.CourseId, e.Student, e.Status)
		}
		if e.StakePaid.IsNil() || !e.StakePaid.IsPositive() {
			return ErrInvalidGenesis.Wrapf("enrollment %d/%s stake must be positive", e.CourseId, e.Student)
		}
		if completed := e.Status == EnrollmentStatusCompleted; completed != (e.CompletedAt > 0) {
			return ErrInvalidGenesis.Wrapf("enrollment %d/%s status %s disagrees with completed at %d",
				e.CourseId, e.Student, e.Status, e.CompletedAt)
		}
		if e.ProgressPct > 100 {
			return ErrInvalidGenesis.Wrapf("enrollment %d/%s progress %d", e.CourseId, e.Student, e.ProgressPct)
		}
		if len(e.MilestonesCompleted) > MaxMilestonesPerEnrollment {
			return ErrInvalidGenesis.Wrapf("enrollment %d/%s exceeds milestone capacity", e.CourseId, e.Student)
		}
		key := fmt.Sprintf("%d/%s", e.CourseId, e.Student)
		if _, dup := enrollments[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate enrollment %s", key)
		}
		enrollments[key] = struct{}{}
	}

	for _, c := range gs.Completions {
		if _, ok := enrollments[fmt.Sprintf("%d/%s", c.CourseId, c.Student)]; !ok {
			return ErrInvalidGenesis.Wrapf("completion of milestone %d has no enrollment", c.MilestoneId)
		}
		if _, ok := milestones[fmt.Sprintf("%d/%d", c.CourseId, c.MilestoneId)]; !ok {
			return ErrInvalidGenesis.Wrapf("completion references unknown milestone %d of course %d", c.MilestoneId, c.CourseId)
		}
	}

	return nil
}
