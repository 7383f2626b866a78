package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the current MAST session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Logout(context.Background()); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Logged out."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
