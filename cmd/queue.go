package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

var (
	queuePrefix  string
	receiveCount int
)

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "List message queues",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cursor awsrest.Cursor
		for {
			page, err := mgr.Queue.ListQueues(queuePrefix, cursor)
			if err != nil {
				return err
			}
			for _, url := range page.QueueURLs {
				fmt.Println(url)
			}
			if page.Next.IsZero() {
				return nil
			}
			cursor = page.Next
		}
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <queue-url> <body>",
	Short: "Send a message to a queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mgr.Queue.SendMessage(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("sent message %s\n", id)
		return nil
	},
}

var receiveCmd = &cobra.Command{
	Use:   "receive <queue-url>",
	Short: "Receive messages from a queue and delete them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := mgr.Queue.ReceiveMessage(args[0], receiveCount)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			fmt.Printf("%s\t%s\n", msg.MessageID, msg.Body)
			if err := mgr.Queue.DeleteMessage(args[0], msg.ReceiptHandle); err != nil {
				mgr.Logger.Warnf("Failed to delete message %v: %v", msg.MessageID, err)
			}
		}
		return nil
	},
}

func init() {
	queuesCmd.Flags().StringVar(&queuePrefix, "prefix", "", "only list queues whose name has this prefix")
	receiveCmd.Flags().IntVarP(&receiveCount, "count", "n", 1, "maximum number of messages to receive")
	rootCmd.AddCommand(queuesCmd, sendCmd, receiveCmd)
}
