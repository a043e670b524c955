package cli

// Flag constants for academy CLI commands
const (
	// Connection flags
	FlagNode    = "node"
	FlagToken   = "token"
	FlagTimeout = "timeout"
	FlagOutput  = "output"

	// Course flags
	FlagDescription   = "description"
	FlagDuration      = "duration-blocks"
	FlagMinCompletion = "min-completion"

	// Milestone flags
	FlagPoints   = "points"
	FlagRequired = "required"

	// Profile flags
	FlagBio = "bio"

	// Fee flags
	FlagRecipient = "recipient"
)

// DefaultNode is the API address of a local node.
const DefaultNode = "http://localhost:1317"

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)
