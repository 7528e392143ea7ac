package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pranavbn/interview-agent/internal/interview"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles available for the technical interview round",
	Run: func(_ *cobra.Command, _ []string) {
		bank := interview.DefaultBank()
		for _, role := range bank.Roles() {
			fmt.Printf("%-20s %s\n", role, bank.DisplayName(role))
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
