package types

import (
	"unicode/utf8"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ValidateAddress checks that addr is a well formed bech32 account address.
func ValidateAddress(addr, field string) error {
	if addr == "" {
		return ErrInvalidAddress.Wrapf("%s cannot be empty", field)
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("%s: %v", field, err)
	}
	return nil
}

// ValidatePercent checks that pct is within 0..100.
func ValidatePercent(pct uint32) error {
	if pct > 100 {
		return ErrInvalidPercent.Wrapf("got %d", pct)
	}
	return nil
}

func validateText(value, field string, maxLen int, required bool) error {
	if required && value == "" {
		return ErrInvalidInput.Wrapf("%s cannot be empty", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return ErrInvalidInput.Wrapf("%s exceeds %d characters", field, maxLen)
	}
	return nil
}

// ValidateCourseText checks the title and description limits of a course or milestone.
func ValidateCourseText(title, description string) error {
	if err := validateText(title, "title", MaxTitleLength, true); err != nil {
		return err
	}
	return validateText(description, "description", MaxDescriptionLength, false)
}

// ValidateProfileText checks the name and bio limits of an instructor profile.
func ValidateProfileText(name, bio string) error {
	if err := validateText(name, "name", MaxNameLength, true); err != nil {
		return err
	}
	return validateText(bio, "bio", MaxBioLength, false)
}
