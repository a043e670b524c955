package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stakedlearn/stakedlearn/x/academy/types"
)

// GetQueryCmd returns the cli query commands for the academy module
func GetQueryCmd() *cobra.Command {
	academyQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the academy module",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	academyQueryCmd.AddCommand(
		GetCmdQueryStatus(),
		GetCmdQueryParams(),
		GetCmdQueryCustody(),
		GetCmdQueryBalance(),
		GetCmdQueryInstructor(),
		GetCmdQueryNextCourseID(),
		GetCmdQueryCourse(),
		GetCmdQueryCourseEnrollments(),
		GetCmdQueryEnrollment(),
		GetCmdQueryMilestone(),
		GetCmdQueryMilestoneCompletion(),
	)
	AddClientFlags(academyQueryCmd)

	return academyQueryCmd
}

// getCmd builds a query command that prints the answer of a GET on the path
// returned by pathFn.
func getCmd(use, short, long string, args cobra.PositionalArgs, pathFn func(args []string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathFn(args)
			if err != nil {
				return err
			}
			client, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			res, err := client.Get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printOutput(cmd, res)
		},
	}
}

// GetCmdQueryStatus returns the command to query the node status
func GetCmdQueryStatus() *cobra.Command {
	return getCmd("status", "Query the chain id and current height", "", cobra.NoArgs,
		func([]string) (string, error) { return "/status", nil })
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	return getCmd("params", "Query the current academy parameters", `Query the platform fee and denom.

Example:
  $ stakedlearnd query academy params`, cobra.NoArgs,
		func([]string) (string, error) { return "/api/params", nil })
}

// GetCmdQueryCustody returns the command to query the custody account
func GetCmdQueryCustody() *cobra.Command {
	return getCmd("custody", "Query the custody balance and its obligations", "", cobra.NoArgs,
		func([]string) (string, error) { return "/api/custody", nil })
}

// GetCmdQueryBalance returns the command to query an account balance
func GetCmdQueryBalance() *cobra.Command {
	return getCmd("balance [address]", "Query the balance of an account", "", cobra.ExactArgs(1),
		func(args []string) (string, error) {
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return "", fmt.Errorf("invalid address: %w", err)
			}
			return "/api/balances/" + args[0], nil
		})
}

// GetCmdQueryInstructor returns the command to query an instructor profile
func GetCmdQueryInstructor() *cobra.Command {
	return getCmd("instructor [address]", "Query an instructor profile", "", cobra.ExactArgs(1),
		func(args []string) (string, error) {
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return "", fmt.Errorf("invalid address: %w", err)
			}
			return "/api/instructors/" + args[0], nil
		})
}

// GetCmdQueryNextCourseID returns the command to query the next course id
func GetCmdQueryNextCourseID() *cobra.Command {
	return getCmd("next-course-id", "Query the id the next course will get", "", cobra.NoArgs,
		func([]string) (string, error) { return "/api/courses/next-id", nil })
}

// GetCmdQueryCourse returns the command to query a course by ID
func GetCmdQueryCourse() *cobra.Command {
	return getCmd("course [course-id]", "Query a course by ID", `Query a course including its reward pool.

Example:
  $ stakedlearnd query academy course 1`, cobra.ExactArgs(1),
		func(args []string) (string, error) {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("/api/courses/%d", courseID), nil
		})
}

// GetCmdQueryCourseEnrollments returns the command to list the enrollments of a course
func GetCmdQueryCourseEnrollments() *cobra.Command {
	return getCmd("enrollments [course-id]", "List the enrollments of a course", "", cobra.ExactArgs(1),
		func(args []string) (string, error) {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("/api/courses/%d/enrollments", courseID), nil
		})
}

// GetCmdQueryEnrollment returns the command to query one enrollment
func GetCmdQueryEnrollment() *cobra.Command {
	return getCmd("enrollment [course-id] [student]", "Query the enrollment of a student", "", cobra.ExactArgs(2),
		func(args []string) (string, error) {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return "", err
			}
			if _, err := sdk.AccAddressFromBech32(args[1]); err != nil {
				return "", fmt.Errorf("invalid student address: %w", err)
			}
			return fmt.Sprintf("/api/courses/%d/enrollments/%s", courseID, args[1]), nil
		})
}

// GetCmdQueryMilestone returns the command to query a milestone definition
func GetCmdQueryMilestone() *cobra.Command {
	return getCmd("milestone [course-id] [milestone-id]", "Query a milestone definition", "", cobra.ExactArgs(2),
		func(args []string) (string, error) {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return "", err
			}
			milestoneID, err := parseUint("milestone-id", args[1])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("/api/courses/%d/milestones/%d", courseID, milestoneID), nil
		})
}

// GetCmdQueryMilestoneCompletion returns the command to query a milestone completion
func GetCmdQueryMilestoneCompletion() *cobra.Command {
	return getCmd("milestone-completion [course-id] [milestone-id] [student]", "Query a student's milestone completion", "", cobra.ExactArgs(3),
		func(args []string) (string, error) {
			courseID, err := parseUint("course-id", args[0])
			if err != nil {
				return "", err
			}
			milestoneID, err := parseUint("milestone-id", args[1])
			if err != nil {
				return "", err
			}
			if _, err := sdk.AccAddressFromBech32(args[2]); err != nil {
				return "", fmt.Errorf("invalid student address: %w", err)
			}
			return fmt.Sprintf("/api/courses/%d/milestones/%d/completions/%s", courseID, milestoneID, args[2]), nil
		})
}
