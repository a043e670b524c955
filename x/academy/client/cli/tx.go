package cli

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/api"
	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// GetTxCmd returns the transaction commands for the academy module. Every
// command acts on behalf of the holder of the caller token.
func GetTxCmd() *cobra.Command {
	academyTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Academy transaction subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	academyTxCmd.AddCommand(
		CmdRegisterInstructor(),
		CmdCreateCourse(),
		CmdAddMilestone(),
		CmdEnroll(),
		CmdCompleteMilestone(),
		CmdUpdateProgress(),
		CmdCompleteCourse(),
		CmdClaimForfeited(),
		CmdFundRewards(),
		CmdToggleCourse(),
		CmdSetPlatformFee(),
		CmdWithdrawFees(),
		CmdFaucet(),
	)
	AddClientFlags(academyTxCmd)

	return academyTxCmd
}

// CmdRegisterInstructor returns a CLI command handler for registering an instructor profile
func CmdRegisterInstructor() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-instructor [name]",
		Short: "Create or update your instructor profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bio, err := cmd.Flags().GetString(FlagBio)
			if err != nil {
				return err
			}
			return send(cmd, "POST", "/api/instructors", api.RegisterInstructorRequest{Name: args[0], Bio: bio})
		},
	}
	cmd.Flags().String(FlagBio, "", "instructor biography")
	return cmd
}

// CmdCreateCourse returns a CLI command handler for creating a course
func CmdCreateCourse() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-course [title] [stake-amount] [reward-amount]",
		Short: "Publish a new course",
		Long: `Publish a new course. Students lock the stake amount when they enroll
and receive it back together with the reward when they complete the course.

Example:
  $ stakedlearnd tx academy create-course "Intro to Go" 1000000 500000 --duration-blocks 100800 --min-completion 80`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseAmount("stake-amount", args[1]); err != nil {
				return err
			}
			if _, err := parseAmount("reward-amount", args[2]); err != nil {
				return err
			}
			description, err := cmd.Flags().GetString(FlagDescription)
			if err != nil {
				return err
			}
			duration, err := cmd.Flags().GetUint64(FlagDuration)
			if err != nil {
				return err
			}
			minCompletion, err := cmd.Flags().GetUint32(FlagMinCompletion)
			if err != nil {
				return err
			}
			if err := types.ValidatePercent(minCompletion); err != nil {
				return err
			}

			return send(cmd, "POST", "/api/courses", api.CreateCourseRequest{
				Title:            args[0],
				Description:      description,
				StakeAmount:      args[1],
				RewardAmount:     args[2],
				DurationBlocks:   duration,
				MinCompletionPct: minCompletion,
			})
		},
	}
	cmd.Flags().String(FlagDescription, "", "course description")
	cmd.Flags().Uint64(FlagDuration, 0, "blocks after creation before unfinished stakes can be forfeited")
	cmd.Flags().Uint32(FlagMinCompletion, 80, "progress percentage required to complete the course")
	return cmd
}

// CmdAddMilestone returns a CLI command handler for adding a milestone
func CmdAddMilestone() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-milestone [course-id] [milestone-id] [title]",
		Short: "Add or replace a milestone of a course you own",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			milestoneID, err := parseUint("milestone-id", args[1])
			if err != nil {
				return err
			}
			description, err := cmd.Flags().GetString(FlagDescription)
			if err != nil {
				return err
			}
			points, err := cmd.Flags().GetUint64(FlagPoints)
			if err != nil {
				return err
			}
			required, err := cmd.Flags().GetBool(FlagRequired)
			if err != nil {
				return err
			}

			return send(cmd, "POST", fmt.Sprintf("/api/courses/%d/milestones", courseID), api.AddMilestoneRequest{
				MilestoneId: milestoneID,
				Title:       args[2],
				Description: description,
				Points:      points,
				Required:    required,
			})
		},
	}
	cmd.Flags().String(FlagDescription, "", "milestone description")
	cmd.Flags().Uint64(FlagPoints, 0, "points earned on completion")
	cmd.Flags().Bool(FlagRequired, false, "mark the milestone as required")
	return cmd
}

// CmdEnroll returns a CLI command handler for enrolling in a course
func CmdEnroll() *cobra.Command {
	return courseActionCmd("enroll [course-id]", "Enroll in a course, locking its stake", "enroll")
}

// CmdCompleteMilestone returns a CLI command handler for submitting a milestone
func CmdCompleteMilestone() *cobra.Command {
	return &cobra.Command{
		Use:   "complete-milestone [course-id] [milestone-id]",
		Short: "Submit a milestone of a course you are enrolled in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			milestoneID, err := parseUint("milestone-id", args[1])
			if err != nil {
				return err
			}
			return send(cmd, "POST", fmt.Sprintf("/api/courses/%d/milestones/%d/complete", courseID, milestoneID), nil)
		},
	}
}

// CmdUpdateProgress returns a CLI command handler for setting a student's progress
func CmdUpdateProgress() *cobra.Command {
	return &cobra.Command{
		Use:   "update-progress [course-id] [student] [progress-pct]",
		Short: "Set the progress of a student in a course you own",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			if _, err := sdk.AccAddressFromBech32(args[1]); err != nil {
				return fmt.Errorf("invalid student address: %w", err)
			}
			pct, err := parsePercent("progress-pct", args[2])
			if err != nil {
				return err
			}
			return send(cmd, "PUT", fmt.Sprintf("/api/courses/%d/progress", courseID), api.UpdateProgressRequest{
				Student:     args[1],
				ProgressPct: pct,
			})
		},
	}
}

// CmdCompleteCourse returns a CLI command handler for completing a course
func CmdCompleteCourse() *cobra.Command {
	return courseActionCmd("complete-course [course-id]", "Complete a course and collect stake and reward", "complete")
}

// CmdClaimForfeited returns a CLI command handler for sweeping forfeited stakes
func CmdClaimForfeited() *cobra.Command {
	return courseActionCmd("claim-forfeited [course-id]", "Claim the stakes of unfinished enrollments after the deadline", "claim-forfeited")
}

// CmdFundRewards returns a CLI command handler for funding a course reward pool
func CmdFundRewards() *cobra.Command {
	return &cobra.Command{
		Use:   "fund-rewards [course-id] [amount]",
		Short: "Add funds to the reward pool of a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			if _, err := parseAmount("amount", args[1]); err != nil {
				return err
			}
			return send(cmd, "POST", fmt.Sprintf("/api/courses/%d/rewards", courseID), api.FundRewardsRequest{Amount: args[1]})
		},
	}
}

// CmdToggleCourse returns a CLI command handler for toggling a course (admin)
func CmdToggleCourse() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-course [course-id]",
		Short: "Activate or deactivate a course (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			return send(cmd, "POST", fmt.Sprintf("/api/admin/courses/%d/toggle", courseID), nil)
		},
	}
}

// CmdSetPlatformFee returns a CLI command handler for updating the platform fee (admin)
func CmdSetPlatformFee() *cobra.Command {
	return &cobra.Command{
		Use:   "set-platform-fee [pct]",
		Short: "Set the platform fee percentage (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := parsePercent("pct", args[0])
			if err != nil {
				return err
			}
			if err := types.ValidatePlatformFee(pct); err != nil {
				return err
			}
			return send(cmd, "PUT", "/api/admin/platform-fee", api.SetPlatformFeeRequest{PlatformFeePct: pct})
		},
	}
}

// CmdWithdrawFees returns a CLI command handler for withdrawing accrued fees (admin)
func CmdWithdrawFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-fees",
		Short: "Withdraw accrued platform fees (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipient, err := cmd.Flags().GetString(FlagRecipient)
			if err != nil {
				return err
			}
			if recipient != "" {
				if _, err := sdk.AccAddressFromBech32(recipient); err != nil {
					return fmt.Errorf("invalid recipient: %w", err)
				}
			}
			return send(cmd, "POST", "/api/admin/fees/withdraw", api.WithdrawFeesRequest{Recipient: recipient})
		},
	}
	cmd.Flags().String(FlagRecipient, "", "fee recipient (defaults to the caller)")
	return cmd
}

// CmdFaucet returns a CLI command handler for minting devnet funds (admin)
func CmdFaucet() *cobra.Command {
	return &cobra.Command{
		Use:   "faucet [recipient] [amount]",
		Short: "Mint devnet funds to an account (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return fmt.Errorf("invalid recipient: %w", err)
			}
			if _, err := parseAmount("amount", args[1]); err != nil {
				return err
			}
			return send(cmd, "POST", "/api/admin/faucet", api.FaucetRequest{Recipient: args[0], Amount: args[1]})
		},
	}
}

func courseActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return err
			}
			return send(cmd, "POST", fmt.Sprintf("/api/courses/%d/%s", courseID, action), nil)
		},
	}
}

func send(cmd *cobra.Command, method, path string, body interface{}) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	res, err := client.do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}
	return printOutput(cmd, res)
}

func parseUint(name, raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

func parsePercent(name, raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if err := types.ValidatePercent(uint32(v)); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func parseAmount(name, raw string) (math.Int, error) {
	v, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s %q: not an integer", name, raw)
	}
	if !v.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid %s %q: must be positive", name, raw)
	}
	return v, nil
}
