package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

var lsPrefix string

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List all buckets",
	RunE: func(cmd *cobra.Command, args []string) error {
		buckets, err := mgr.Storage.ListBuckets()
		if err != nil {
			return err
		}
		for _, b := range buckets {
			fmt.Printf("%s\t%s\n", b.CreationDate, b.Name)
		}
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls <bucket>",
	Short: "List the objects in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// walk the listing page by page, replaying each cursor verbatim
		var cursor awsrest.Cursor
		for {
			page, err := mgr.Storage.ListObjects(args[0], lsPrefix, cursor)
			if err != nil {
				return err
			}
			for _, obj := range page.Objects {
				fmt.Printf("%12d  %s\n", obj.Size, obj.Key)
			}
			if page.Next.IsZero() {
				return nil
			}
			cursor = page.Next
		}
	},
}

var putCmd = &cobra.Command{
	Use:   "put <bucket> <key> <file>",
	Short: "Upload a file as a single object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ioutil.ReadFile(args[2])
		if err != nil {
			return err
		}
		etag, err := mgr.Storage.PutObject(args[0], args[1], data)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s (etag %s)\n", args[1], etag)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <bucket> <key> [dest]",
	Short: "Download an object (to stdout by default)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := mgr.Storage.GetObject(args[0], args[1])
		if err != nil {
			return err
		}
		if len(args) == 3 {
			return ioutil.WriteFile(args[2], data, 0644)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <bucket> <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mgr.Storage.DeleteObject(args[0], args[1])
	},
}

func init() {
	lsCmd.Flags().StringVar(&lsPrefix, "prefix", "", "only list keys with this prefix")
	rootCmd.AddCommand(bucketsCmd, lsCmd, putCmd, getCmd, rmCmd)
}
