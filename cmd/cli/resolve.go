package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/common"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <object name>",
	Short: "Resolve an object name to a sky position",
	Example: `  mastquery resolve M101
  mastquery resolve "TIC 141914082"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		objectName := strings.Join(args, " ")

		coordinates, err := client.ResolveObject(ctx, objectName)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", headerStyle.Render(objectName), coordinates)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
