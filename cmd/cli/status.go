package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/mast"
)

var statusQuiet bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current MAST session",
	RunE: func(cmd *cobra.Command, args []string) error {

		verbose := !statusQuiet
		info, err := client.SessionInfo(context.Background(), mast.SessionInfoOptions{
			Verbose: &verbose,
		})
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("MAST Session"))
		fmt.Printf("Server:    %s\n", cfg.Server.Endpoint)

		if info.Anonymous {
			fmt.Printf("User:      %s\n", anonymousStyle.Render("anonymous"))
			return nil
		}

		fmt.Printf("User:      %s\n", headerStyle.Render(info.Username()))
		if len(info.EPPN) > 0 {
			fmt.Printf("EPPN:      %s\n", info.EPPN)
		}
		if len(info.Scopes) > 0 {
			fmt.Printf("Scopes:    %s\n", strings.Join(info.Scopes, ", "))
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusQuiet, "quiet", "q", false, "Suppress session info logging")

	rootCmd.AddCommand(statusCmd)
}
