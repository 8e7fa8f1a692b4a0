package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

var domainCmd = &cobra.Command{
	Use:   "domain <create|delete> <name>",
	Short: "Create or delete an attribute domain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "create":
			return mgr.Table.CreateDomain(args[1])
		case "delete":
			return mgr.Table.DeleteDomain(args[1])
		default:
			return fmt.Errorf("unknown domain action %q", args[0])
		}
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <expression>",
	Short: "Run a select expression against the attribute store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cursor awsrest.Cursor
		for {
			page, err := mgr.Table.Select(args[0], cursor)
			if err != nil {
				return err
			}
			for _, item := range page.Items {
				pairs := make([]string, 0, len(item.Attributes))
				for _, attr := range item.Attributes {
					pairs = append(pairs, attr.Name+"="+attr.Value)
				}
				fmt.Printf("%s\t%s\n", item.Name, strings.Join(pairs, " "))
			}
			if page.Next.IsZero() {
				return nil
			}
			cursor = page.Next
		}
	},
}

func init() {
	rootCmd.AddCommand(domainCmd, selectCmd)
}
