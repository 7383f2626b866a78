package cli

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/common"
)

var (
	downloadOutput  string
	downloadCloud   bool
	downloadProfile string
)

var downloadCmd = &cobra.Command{
	Use:   "download <data URI>",
	Short: "Download a data product",
	Long: `Download a data product by its mast: data URI.

With --cloud the STScI public S3 bucket is tried first, falling back to
the MAST download endpoint when the product has no cloud copy.`,
	Example: `  mastquery download mast:HST/product/ib6v06cbq_flt.fits
  mastquery download --cloud mast:TESS/product/tess2019128220341-0000000471015233-0016-s_lc.fits`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	dataURI := args[0]

	localPath := downloadOutput
	if len(localPath) == 0 {
		localPath = path.Base(strings.TrimPrefix(dataURI, "mast:"))
	}

	if downloadCloud {
		if err := client.EnableCloudDataset(ctx, cfg.Cloud.Provider, downloadProfile, true); err != nil {
			return err
		}
		defer client.DisableCloudDataset()
	}

	if err := client.DownloadFile(ctx, dataURI, localPath); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Downloaded ") + localPath)

	return nil
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Local path to write to (default: product filename)")
	downloadCmd.Flags().BoolVar(&downloadCloud, "cloud", false, "Prefer the public S3 bucket over MAST")
	downloadCmd.Flags().StringVar(&downloadProfile, "profile", "", "AWS config profile for cloud access")

	rootCmd.AddCommand(downloadCmd)
}
