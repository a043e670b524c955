package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Academy module sentinel errors, grouped by the kind reported to callers.

var (
	// Authorization errors
	ErrOwnerOnly    = sdkerrors.Register(ModuleName, 2, "only the platform admin may perform this operation")
	ErrUnauthorized = sdkerrors.Register(ModuleName, 3, "caller is not the course instructor")

	// Not found errors
	ErrCourseNotFound    = sdkerrors.Register(ModuleName, 10, "course not found")
	ErrMilestoneNotFound = sdkerrors.Register(ModuleName, 11, "milestone not found")
	ErrNotEnrolled       = sdkerrors.Register(ModuleName, 12, "student is not enrolled in course")
	ErrUnknownInstructor = sdkerrors.Register(ModuleName, 13, "instructor profile not found")

	// Conflict errors
	ErrAlreadyEnrolled     = sdkerrors.Register(ModuleName, 20, "student already enrolled in course")
	ErrAlreadyCompleted    = sdkerrors.Register(ModuleName, 21, "enrollment already completed")
	ErrEnrollmentForfeited = sdkerrors.Register(ModuleName, 22, "enrollment stake already forfeited")

	// Validation errors
	ErrInvalidStake     = sdkerrors.Register(ModuleName, 30, "stake amount must be positive")
	ErrInvalidReward    = sdkerrors.Register(ModuleName, 31, "reward amount must be positive")
	ErrInvalidPercent   = sdkerrors.Register(ModuleName, 32, "percentage must be between 0 and 100")
	ErrFeeTooHigh       = sdkerrors.Register(ModuleName, 33, "platform fee exceeds maximum")
	ErrCapacityExceeded = sdkerrors.Register(ModuleName, 34, "milestone sequence capacity exceeded")
	ErrInvalidAddress   = sdkerrors.Register(ModuleName, 35, "invalid address")
	ErrInvalidInput     = sdkerrors.Register(ModuleName, 36, "invalid input")
	ErrInvalidAmount    = sdkerrors.Register(ModuleName, 37, "invalid amount")
	ErrInvalidGenesis   = sdkerrors.Register(ModuleName, 38, "invalid genesis state")

	// Precondition errors
	ErrCourseInactive       = sdkerrors.Register(ModuleName, 40, "course is not active")
	ErrInsufficientProgress = sdkerrors.Register(ModuleName, 41, "progress below course completion threshold")
	ErrDurationNotElapsed   = sdkerrors.Register(ModuleName, 42, "course duration has not elapsed")

	// Custody errors
	ErrTransferFailed = sdkerrors.Register(ModuleName, 50, "value transfer failed")
)

// ErrorKind is the coarse category of a failed operation.
type ErrorKind string

const (
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindValidation    ErrorKind = "validation"
	KindPrecondition  ErrorKind = "precondition"
	KindCustody       ErrorKind = "custody"
	KindInternal      ErrorKind = "internal"
)

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindAuthorization, []error{ErrOwnerOnly, ErrUnauthorized}},
	{KindNotFound, []error{ErrCourseNotFound, ErrMilestoneNotFound, ErrNotEnrolled, ErrUnknownInstructor}},
	{KindConflict, []error{ErrAlreadyEnrolled, ErrAlreadyCompleted, ErrEnrollmentForfeited}},
	{KindValidation, []error{
		ErrInvalidStake, ErrInvalidReward, ErrInvalidPercent, ErrFeeTooHigh,
		ErrCapacityExceeded, ErrInvalidAddress, ErrInvalidInput, ErrInvalidAmount, ErrInvalidGenesis,
	}},
	{KindPrecondition, []error{ErrCourseInactive, ErrInsufficientProgress, ErrDurationNotElapsed}},
	{KindCustody, []error{ErrTransferFailed}},
}

// KindOf classifies err. Errors that did not originate in this module are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, group := range errorKinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindInternal
}
