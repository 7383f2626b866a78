package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/common"
	"github.com/duytnguyendtn/astroquery/internal/models"
)

var (
	queryParams   []string
	queryPage     int
	queryPageSize int
	queryService  bool
)

var queryCmd = &cobra.Command{
	Use:   "query <service>",
	Short: "Run a raw portal or service API query",
	Long: `Run a query against a named MAST service and print the rows as JSON.

By default the discovery portal (Mashup) is used; --service-api routes
the request to the versioned service API instead.`,
	Example: `  mastquery query Mast.Caom.Cone -p ra=210.8 -p dec=54.35 -p radius=0.2
  mastquery query panstarrs/dr2/mean --service-api -p ra=210.8 -p dec=54.35 -p radius=0.05`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	service := args[0]

	if queryService {
		rows, err := client.ServiceQuery(ctx, service, parseParamsAsStrings())
		if err != nil {
			return err
		}
		return printRows(rows)
	}

	request := models.NewMashupRequest(service, parseParams())
	request.Page = queryPage
	request.PageSize = queryPageSize

	response, err := client.PortalQuery(ctx, request)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, infoStyle.Render(
		fmt.Sprintf("%d rows from %s", len(response.Data), service)))

	return printRows(response.Data)
}

func parseParams() map[string]any {
	params := make(map[string]any)
	for key, value := range parseParamsAsStrings() {
		params[key] = value
	}
	return params
}

func parseParamsAsStrings() map[string]string {
	params := make(map[string]string)
	for _, pair := range queryParams {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			fmt.Fprintln(os.Stderr, warningStyle.Render(
				fmt.Sprintf("Ignoring malformed parameter %q (want key=value)", pair)))
			continue
		}
		params[key] = value
	}
	return params
}

func printRows(rows []map[string]any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Query parameter as key=value (repeatable)")
	queryCmd.Flags().IntVar(&queryPage, "page", 0, "Result page to fetch")
	queryCmd.Flags().IntVar(&queryPageSize, "pagesize", 0, "Rows per page")
	queryCmd.Flags().BoolVar(&queryService, "service-api", false, "Use the versioned service API instead of the portal")

	rootCmd.AddCommand(queryCmd)
}
