package types

const (
	// ModuleName defines the module name
	ModuleName = "academy"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for academy
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// DefaultDenom is the denomination stakes and rewards are paid in.
	DefaultDenom = "ulearn"

	// MaxMilestonesPerEnrollment bounds the milestone sequence stored on an enrollment.
	MaxMilestonesPerEnrollment = 20

	// MaxPlatformFeePct is the highest platform fee the admin may configure.
	MaxPlatformFeePct = 20

	// DefaultPlatformFeePct is the platform fee applied to forfeited stakes.
	DefaultPlatformFeePct = 5

	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxNameLength        = 100
	MaxBioLength         = 500
)
