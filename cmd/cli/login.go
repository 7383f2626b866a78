package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/common"
)

var (
	loginToken   string
	storeToken   bool
	reenterToken bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the MAST portal",
	Long: `Authenticate with the MAST portal using an API token.

Tokens can be generated at https://auth.mast.stsci.edu/token. If no
token is given on the command line, $MAST_API_TOKEN and the local token
store are consulted before prompting.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	if err := client.Login(ctx, loginToken, storeToken, reenterToken); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("login cancelled")
		}
		return err
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Login successful!"))
	fmt.Printf("MAST server: %s\n", cfg.Server.Endpoint)
	fmt.Println()

	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "MAST API token")
	loginCmd.Flags().BoolVar(&storeToken, "store-token", false, "Store the token for later sessions")
	loginCmd.Flags().BoolVar(&reenterToken, "reenter-token", false, "Prompt for the token even if one is stored")

	rootCmd.AddCommand(loginCmd)
}
