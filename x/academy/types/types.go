package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// EnrollmentStatus is the settlement state of an enrollment.
type EnrollmentStatus int32

const (
	EnrollmentStatusUnspecified EnrollmentStatus = 0
	EnrollmentStatusEnrolled    EnrollmentStatus = 1
	EnrollmentStatusCompleted   EnrollmentStatus = 2
	EnrollmentStatusForfeited   EnrollmentStatus = 3
)

func (s EnrollmentStatus) String() string {
	switch s {
	case EnrollmentStatusEnrolled:
		return "enrolled"
	case EnrollmentStatusCompleted:
		return "completed"
	case EnrollmentStatusForfeited:
		return "forfeited"
	default:
		return "unspecified"
	}
}

// IsTerminal reports whether no further transition is possible from s.
func (s EnrollmentStatus) IsTerminal() bool {
	return s == EnrollmentStatusCompleted || s == EnrollmentStatusForfeited
}

// Course is a published course with its staking terms.
type Course struct {
	Id               uint64   `json:"id"`
	Instructor       string   `json:"instructor"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	StakeAmount      math.Int `json:"stake_amount"`
	RewardAmount     math.Int `json:"reward_amount"`
	DurationBlocks   uint64   `json:"duration_blocks"`
	MinCompletionPct uint32   `json:"min_completion_pct"`
	IsActive         bool     `json:"is_active"`
	TotalEnrolled    uint64   `json:"total_enrolled"`
	TotalCompleted   uint64   `json:"total_completed"`
	CreatedAt        int64    `json:"created_at"`
	// RewardPool is the reward funding held in custody for this course.
	RewardPool math.Int `json:"reward_pool"`
}

// Deadline is the height after which unfinished enrollments may be forfeited.
func (c Course) Deadline() int64 {
	if c.DurationBlocks > uint64(maxHeight-c.CreatedAt) {
		return maxHeight
	}
	return c.CreatedAt + int64(c.DurationBlocks)
}

// DurationElapsed reports whether height is past the course deadline.
func (c Course) DurationElapsed(height int64) bool {
	return height > c.Deadline()
}

// Validate checks the static course invariants.
func (c Course) Validate() error {
	if c.Id == 0 {
		return ErrInvalidInput.Wrap("course id cannot be zero")
	}
	if err := ValidateAddress(c.Instructor, "instructor"); err != nil {
		return err
	}
	if c.StakeAmount.IsNil() || !c.StakeAmount.IsPositive() {
		return ErrInvalidStake.Wrapf("course %d", c.Id)
	}
	if c.RewardAmount.IsNil() || !c.RewardAmount.IsPositive() {
		return ErrInvalidReward.Wrapf("course %d", c.Id)
	}
	if c.MinCompletionPct > 100 {
		return ErrInvalidPercent.Wrapf("course %d: min completion %d", c.Id, c.MinCompletionPct)
	}
	if !c.RewardPool.IsNil() && c.RewardPool.IsNegative() {
		return ErrInvalidAmount.Wrapf("course %d: negative reward pool", c.Id)
	}
	return nil
}

const maxHeight = int64(^uint64(0) >> 1)

// MilestoneSequence is the append-only list of milestone ids credited to an
// enrollment. It never grows past MaxMilestonesPerEnrollment.
type MilestoneSequence []uint64

// Append returns the sequence with id added, or ErrCapacityExceeded when full.
func (s MilestoneSequence) Append(id uint64) (MilestoneSequence, error) {
	if len(s) >= MaxMilestonesPerEnrollment {
		return s, ErrCapacityExceeded.Wrapf("limit is %d milestones", MaxMilestonesPerEnrollment)
	}
	out := make(MilestoneSequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, id), nil
}

// Enrollment is the escrow record of one student in one course.
type Enrollment struct {
	Student             string            `json:"student"`
	CourseId            uint64            `json:"course_id"`
	EnrolledAt          int64             `json:"enrolled_at"`
	StakePaid           math.Int          `json:"stake_paid"`
	ProgressPct         uint32            `json:"progress_pct"`
	Status              EnrollmentStatus  `json:"status"`
	CompletedAt         int64             `json:"completed_at"`
	SettledAt           int64             `json:"settled_at"`
	MilestonesCompleted MilestoneSequence `json:"milestones_completed"`
}

// IsCompleted reports whether the stake and reward were paid out.
func (e Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted
}

// IsForfeited reports whether the stake was swept to the instructor.
func (e Enrollment) IsForfeited() bool {
	return e.Status == EnrollmentStatusForfeited
}

// CheckMutable returns the conflict error for a terminal enrollment.
func (e Enrollment) CheckMutable() error {
	switch e.Status {
	case EnrollmentStatusCompleted:
		return ErrAlreadyCompleted.Wrapf("course %d, student %s", e.CourseId, e.Student)
	case EnrollmentStatusForfeited:
		return ErrEnrollmentForfeited.Wrapf("course %d, student %s", e.CourseId, e.Student)
	}
	return nil
}

// Milestone is a catalog entry of a course.
type Milestone struct {
	CourseId    uint64 `json:"course_id"`
	MilestoneId uint64 `json:"milestone_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      uint64 `json:"points"`
	Required    bool   `json:"required"`
}

// MilestoneCompletion records a milestone credited to a student.
type MilestoneCompletion struct {
	Student      string `json:"student"`
	CourseId     uint64 `json:"course_id"`
	MilestoneId  uint64 `json:"milestone_id"`
	CompletedAt  int64  `json:"completed_at"`
	PointsEarned uint64 `json:"points_earned"`
}

// InstructorProfile is the public record of an instructor.
type InstructorProfile struct {
	Address       string `json:"address"`
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	TotalCourses  uint64 `json:"total_courses"`
	TotalStudents uint64 `json:"total_students"`
	RegisteredAt  int64  `json:"registered_at"`
}

// SettlementReceipt describes a completion payout.
type SettlementReceipt struct {
	Student       string   `json:"student"`
	CourseId      uint64   `json:"course_id"`
	StakeReturned math.Int `json:"stake_returned"`
	RewardPaid    math.Int `json:"reward_paid"`
	TotalPayout   math.Int `json:"total_payout"`
	CompletedAt   int64    `json:"completed_at"`
}

// ForfeitureReceipt describes one forfeiture sweep of a course.
type ForfeitureReceipt struct {
	CourseId         uint64   `json:"course_id"`
	Instructor       string   `json:"instructor"`
	Forfeited        uint64   `json:"forfeited"`
	GrossStake       math.Int `json:"gross_stake"`
	PlatformFee      math.Int `json:"platform_fee"`
	InstructorPayout math.Int `json:"instructor_payout"`
}

func (r ForfeitureReceipt) String() string {
	return fmt.Sprintf("course %d: %d forfeited, gross %s, fee %s, paid %s",
		r.CourseId, r.Forfeited, r.GrossStake, r.PlatformFee, r.InstructorPayout)
}
