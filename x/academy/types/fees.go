package types

import (
	"cosmossdk.io/math"
)

// PlatformFee returns floor(amount * feePct / 100). Truncation keeps the fee a
// lower bound of the exact percentage.
func PlatformFee(amount math.Int, feePct uint32) math.Int {
	if amount.IsNil() || !amount.IsPositive() || feePct == 0 {
		return math.ZeroInt()
	}
	return amount.MulRaw(int64(feePct)).QuoRaw(100)
}

// InstructorShare returns the part of amount left after the platform fee.
func InstructorShare(amount math.Int, feePct uint32) math.Int {
	if amount.IsNil() {
		return math.ZeroInt()
	}
	return amount.Sub(PlatformFee(amount, feePct))
}
