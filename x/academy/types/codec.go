package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// Msg is implemented by every academy message.
type Msg interface {
	ValidateBasic() error
}

// RegisterLegacyAminoCodec registers the academy messages on cdc.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterInterface((*Msg)(nil), nil)
	cdc.RegisterConcrete(&MsgRegisterInstructor{}, "academy/MsgRegisterInstructor", nil)
	cdc.RegisterConcrete(&MsgCreateCourse{}, "academy/MsgCreateCourse", nil)
	cdc.RegisterConcrete(&MsgAddMilestone{}, "academy/MsgAddMilestone", nil)
	cdc.RegisterConcrete(&MsgEnroll{}, "academy/MsgEnroll", nil)
	cdc.RegisterConcrete(&MsgCompleteMilestone{}, "academy/MsgCompleteMilestone", nil)
	cdc.RegisterConcrete(&MsgUpdateProgress{}, "academy/MsgUpdateProgress", nil)
	cdc.RegisterConcrete(&MsgCompleteCourse{}, "academy/MsgCompleteCourse", nil)
	cdc.RegisterConcrete(&MsgClaimForfeitedStakes{}, "academy/MsgClaimForfeitedStakes", nil)
	cdc.RegisterConcrete(&MsgFundCourseRewards{}, "academy/MsgFundCourseRewards", nil)
	cdc.RegisterConcrete(&MsgToggleCourseStatus{}, "academy/MsgToggleCourseStatus", nil)
	cdc.RegisterConcrete(&MsgSetPlatformFee{}, "academy/MsgSetPlatformFee", nil)
	cdc.RegisterConcrete(&MsgWithdrawPlatformFees{}, "academy/MsgWithdrawPlatformFees", nil)
}

var (
	amino = codec.NewLegacyAmino()
	// ModuleCdc encodes academy records and messages as amino JSON.
	ModuleCdc = amino
)

func init() {
	RegisterLegacyAminoCodec(amino)
	amino.Seal()
}
