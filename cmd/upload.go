package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadPartSize int64

var uploadCmd = &cobra.Command{
	Use:   "upload <bucket> <key> <file>",
	Short: "Upload a large file in parts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		etag, err := mgr.Storage.UploadFile(args[0], args[1], args[2], uploadPartSize<<20)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s (etag %s)\n", args[1], etag)
		return nil
	},
}

func init() {
	uploadCmd.Flags().Int64Var(&uploadPartSize, "part-size", 0, "part size in MiB (0 for the default)")
	rootCmd.AddCommand(uploadCmd)
}
