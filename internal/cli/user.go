package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the authenticated user's profile",
	Long:  `Show the profile, API usage counts and quotas of the user the access token belongs to.`,
	Run:   runUser,
}

func runUser(cmd *cobra.Command, args []string) {
	client, err := newCloudClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	user, err := client.User(cmd.Context())
	if err != nil {
		logger.Error("Failed to fetch user", "error", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to fetch user: %v\n", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to format response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}

func init() {
	rootCmd.AddCommand(userCmd)
}
