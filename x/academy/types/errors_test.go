package types

import (
	"errors"
	"fmt"
	"testing"

	sdkerrors "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		err      *sdkerrors.Error
		wantCode uint32
	}{
		{"ErrOwnerOnly", ErrOwnerOnly, 2},
		{"ErrUnauthorized", ErrUnauthorized, 3},
		{"ErrCourseNotFound", ErrCourseNotFound, 10},
		{"ErrMilestoneNotFound", ErrMilestoneNotFound, 11},
		{"ErrNotEnrolled", ErrNotEnrolled, 12},
		{"ErrUnknownInstructor", ErrUnknownInstructor, 13},
		{"ErrAlreadyEnrolled", ErrAlreadyEnrolled, 20},
		{"ErrAlreadyCompleted", ErrAlreadyCompleted, 21},
		{"ErrEnrollmentForfeited", ErrEnrollmentForfeited, 22},
		{"ErrInvalidStake", ErrInvalidStake, 30},
		{"ErrInvalidReward", ErrInvalidReward, 31},
		{"ErrInvalidPercent", ErrInvalidPercent, 32},
		{"ErrFeeTooHigh", ErrFeeTooHigh, 33},
		{"ErrCapacityExceeded", ErrCapacityExceeded, 34},
		{"ErrCourseInactive", ErrCourseInactive, 40},
		{"ErrInsufficientProgress", ErrInsufficientProgress, 41},
		{"ErrDurationNotElapsed", ErrDurationNotElapsed, 42},
		{"ErrTransferFailed", ErrTransferFailed, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantCode, tt.err.ABCICode())
			require.Equal(t, ModuleName, tt.err.Codespace())
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{ErrOwnerOnly, KindAuthorization},
		{ErrUnauthorized.Wrap("course 1"), KindAuthorization},
		{ErrCourseNotFound.Wrapf("course %d", 7), KindNotFound},
		{ErrNotEnrolled, KindNotFound},
		{ErrAlreadyEnrolled, KindConflict},
		{ErrEnrollmentForfeited.Wrap("x"), KindConflict},
		{ErrInvalidPercent, KindValidation},
		{ErrCapacityExceeded.Wrap("full"), KindValidation},
		{ErrInsufficientProgress, KindPrecondition},
		{ErrCourseInactive, KindPrecondition},
		{ErrTransferFailed.Wrap("insufficient funds"), KindCustody},
		{fmt.Errorf("execute: %w", ErrDurationNotElapsed), KindPrecondition},
		{errors.New("disk full"), KindInternal},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}
