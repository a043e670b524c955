package types

import (
	"cosmossdk.io/math"
)

// MsgRegisterInstructor creates or overwrites the caller's instructor profile.
type MsgRegisterInstructor struct {
	Instructor string `json:"instructor"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
}

func (msg MsgRegisterInstructor) ValidateBasic() error {
	if err := ValidateAddress(msg.Instructor, "instructor"); err != nil {
		return err
	}
	return ValidateProfileText(msg.Name, msg.Bio)
}

// MsgCreateCourse publishes a new course owned by Instructor.
type MsgCreateCourse struct {
	Instructor       string   `json:"instructor"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	StakeAmount      math.Int `json:"stake_amount"`
	RewardAmount     math.Int `json:"reward_amount"`
	DurationBlocks   uint64   `json:"duration_blocks"`
	MinCompletionPct uint32   `json:"min_completion_pct"`
}

func (msg MsgCreateCourse) ValidateBasic() error {
	if err := ValidateAddress(msg.Instructor, "instructor"); err != nil {
		return err
	}
	if msg.StakeAmount.IsNil() || !msg.StakeAmount.IsPositive() {
		return ErrInvalidStake
	}
	if msg.RewardAmount.IsNil() || !msg.RewardAmount.IsPositive() {
		return ErrInvalidReward
	}
	if err := ValidatePercent(msg.MinCompletionPct); err != nil {
		return err
	}
	return ValidateCourseText(msg.Title, msg.Description)
}

// MsgAddMilestone stores a milestone definition on a course.
type MsgAddMilestone struct {
	Instructor  string `json:"instructor"`
	CourseId    uint64 `json:"course_id"`
	MilestoneId uint64 `json:"milestone_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      uint64 `json:"points"`
	Required    bool   `json:"required"`
}

func (msg MsgAddMilestone) ValidateBasic() error {
	if err := ValidateAddress(msg.Instructor, "instructor"); err != nil {
		return err
	}
	return ValidateCourseText(msg.Title, msg.Description)
}

// MsgEnroll locks the course stake and enrolls Student.
type MsgEnroll struct {
	Student  string `json:"student"`
	CourseId uint64 `json:"course_id"`
}

func (msg MsgEnroll) ValidateBasic() error {
	return ValidateAddress(msg.Student, "student")
}

// MsgCompleteMilestone credits a milestone to Student.
type MsgCompleteMilestone struct {
	Student     string `json:"student"`
	CourseId    uint64 `json:"course_id"`
	MilestoneId uint64 `json:"milestone_id"`
}

func (msg MsgCompleteMilestone) ValidateBasic() error {
	return ValidateAddress(msg.Student, "student")
}

// MsgUpdateProgress overwrites a student's progress; instructor only.
type MsgUpdateProgress struct {
	Instructor  string `json:"instructor"`
	Student     string `json:"student"`
	CourseId    uint64 `json:"course_id"`
	ProgressPct uint32 `json:"progress_pct"`
}

func (msg MsgUpdateProgress) ValidateBasic() error {
	if err := ValidatePercent(msg.ProgressPct); err != nil {
		return err
	}
	if err := ValidateAddress(msg.Instructor, "instructor"); err != nil {
		return err
	}
	return ValidateAddress(msg.Student, "student")
}

// MsgCompleteCourse settles Student's enrollment and pays out stake plus reward.
type MsgCompleteCourse struct {
	Student  string `json:"student"`
	CourseId uint64 `json:"course_id"`
}

func (msg MsgCompleteCourse) ValidateBasic() error {
	return ValidateAddress(msg.Student, "student")
}

// MsgClaimForfeitedStakes sweeps expired enrollments of a course to its instructor.
type MsgClaimForfeitedStakes struct {
	Instructor string `json:"instructor"`
	CourseId   uint64 `json:"course_id"`
}

func (msg MsgClaimForfeitedStakes) ValidateBasic() error {
	return ValidateAddress(msg.Instructor, "instructor")
}

// MsgFundCourseRewards moves Amount from Funder into the course reward pool.
type MsgFundCourseRewards struct {
	Funder   string   `json:"funder"`
	CourseId uint64   `json:"course_id"`
	Amount   math.Int `json:"amount"`
}

func (msg MsgFundCourseRewards) ValidateBasic() error {
	if err := ValidateAddress(msg.Funder, "funder"); err != nil {
		return err
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return ErrInvalidAmount.Wrap("reward funding must be positive")
	}
	return nil
}

// MsgToggleCourseStatus flips a course's active flag; admin only.
type MsgToggleCourseStatus struct {
	Authority string `json:"authority"`
	CourseId  uint64 `json:"course_id"`
}

func (msg MsgToggleCourseStatus) ValidateBasic() error {
	return ValidateAddress(msg.Authority, "authority")
}

// MsgSetPlatformFee updates the platform fee; admin only.
type MsgSetPlatformFee struct {
	Authority      string `json:"authority"`
	PlatformFeePct uint32 `json:"platform_fee_pct"`
}

func (msg MsgSetPlatformFee) ValidateBasic() error {
	return ValidateAddress(msg.Authority, "authority")
}

// MsgWithdrawPlatformFees pays all accrued platform fees to Recipient; admin only.
type MsgWithdrawPlatformFees struct {
	Authority string `json:"authority"`
	Recipient string `json:"recipient"`
}

func (msg MsgWithdrawPlatformFees) ValidateBasic() error {
	if err := ValidateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return ValidateAddress(msg.Recipient, "recipient")
}
