package types

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params defines the process-wide configuration of the academy module.
type Params struct {
	// PlatformFeePct is withheld from every forfeited stake.
	PlatformFeePct uint32 `json:"platform_fee_pct"`
	// Denom is the coin denomination used for stakes and rewards.
	Denom string `json:"denom"`
}

// DefaultParams returns the default module parameters
func DefaultParams() Params {
	return Params{
		PlatformFeePct: DefaultPlatformFeePct,
		Denom:          DefaultDenom,
	}
}

// Validate validates the parameter set
func (p Params) Validate() error {
	if err := ValidatePlatformFee(p.PlatformFeePct); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return ErrInvalidInput.Wrapf("denom: %v", err)
	}
	return nil
}

// ValidatePlatformFee checks pct against MaxPlatformFeePct.
func ValidatePlatformFee(pct uint32) error {
	if pct > MaxPlatformFeePct {
		return ErrFeeTooHigh.Wrapf("%d%% > %d%%", pct, MaxPlatformFeePct)
	}
	return nil
}

func (p Params) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "platform_fee_pct: %d\n", p.PlatformFeePct)
	fmt.Fprintf(&b, "denom: %s\n", p.Denom)
	return b.String()
}
