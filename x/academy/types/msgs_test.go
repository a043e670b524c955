package types

import (
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestMsgCreateCourseValidateBasic(t *testing.T) {
	valid := MsgCreateCourse{
		Instructor:       testAddr("instructor"),
		Title:            "Intro to Go",
		StakeAmount:      math.NewInt(100),
		RewardAmount:     math.NewInt(50),
		DurationBlocks:   10,
		MinCompletionPct: 80,
	}

	tests := []struct {
		name    string
		mutate  func(*MsgCreateCourse)
		wantErr error
	}{
		{"valid", func(*MsgCreateCourse) {}, nil},
		{"bad instructor", func(m *MsgCreateCourse) { m.Instructor = "x" }, ErrInvalidAddress},
		{"zero stake", func(m *MsgCreateCourse) { m.StakeAmount = math.ZeroInt() }, ErrInvalidStake},
		{"nil stake", func(m *MsgCreateCourse) { m.StakeAmount = math.Int{} }, ErrInvalidStake},
		{"zero reward", func(m *MsgCreateCourse) { m.RewardAmount = math.ZeroInt() }, ErrInvalidReward},
		{"pct over 100", func(m *MsgCreateCourse) { m.MinCompletionPct = 101 }, ErrInvalidPercent},
		{"empty title", func(m *MsgCreateCourse) { m.Title = "" }, ErrInvalidInput},
		{"long description", func(m *MsgCreateCourse) { m.Description = strings.Repeat("a", MaxDescriptionLength+1) }, ErrInvalidInput},
		{"zero duration", func(m *MsgCreateCourse) { m.DurationBlocks = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid
			tt.mutate(&msg)
			err := msg.ValidateBasic()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMsgUpdateProgressChecksPercentFirst(t *testing.T) {
	msg := MsgUpdateProgress{Instructor: "bad", Student: "bad", CourseId: 1, ProgressPct: 150}
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidPercent)

	msg.ProgressPct = 100
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidAddress)

	msg.Instructor = testAddr("instructor")
	msg.Student = testAddr("student")
	require.NoError(t, msg.ValidateBasic())
}

func TestMsgValidateBasicAddresses(t *testing.T) {
	good := testAddr("someone")
	msgs := []Msg{
		&MsgRegisterInstructor{Instructor: good, Name: "Ada"},
		&MsgAddMilestone{Instructor: good, CourseId: 1, MilestoneId: 1, Title: "Week 1"},
		&MsgEnroll{Student: good, CourseId: 1},
		&MsgCompleteMilestone{Student: good, CourseId: 1, MilestoneId: 1},
		&MsgCompleteCourse{Student: good, CourseId: 1},
		&MsgClaimForfeitedStakes{Instructor: good, CourseId: 1},
		&MsgFundCourseRewards{Funder: good, CourseId: 1, Amount: math.NewInt(1)},
		&MsgToggleCourseStatus{Authority: good, CourseId: 1},
		&MsgSetPlatformFee{Authority: good, PlatformFeePct: 30},
		&MsgWithdrawPlatformFees{Authority: good, Recipient: good},
	}
	for _, msg := range msgs {
		require.NoError(t, msg.ValidateBasic(), "%T", msg)
	}

	require.ErrorIs(t, (&MsgEnroll{CourseId: 1}).ValidateBasic(), ErrInvalidAddress)
	require.ErrorIs(t, (&MsgRegisterInstructor{Instructor: good}).ValidateBasic(), ErrInvalidInput)
	require.ErrorIs(t, (&MsgFundCourseRewards{Funder: good, CourseId: 1, Amount: math.ZeroInt()}).ValidateBasic(), ErrInvalidAmount)
	require.ErrorIs(t, (&MsgWithdrawPlatformFees{Authority: good}).ValidateBasic(), ErrInvalidAddress)
}

func TestModuleCdcRoundTripsMsgInterface(t *testing.T) {
	var in Msg = &MsgEnroll{Student: testAddr("student"), CourseId: 42}
	bz, err := ModuleCdc.MarshalJSON(in)
	require.NoError(t, err)
	require.Contains(t, string(bz), "academy/MsgEnroll")

	var out Msg
	require.NoError(t, ModuleCdc.UnmarshalJSON(bz, &out))
	enroll, ok := out.(*MsgEnroll)
	require.True(t, ok)
	require.Equal(t, uint64(42), enroll.CourseId)
}
