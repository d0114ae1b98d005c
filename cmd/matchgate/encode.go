package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyfe05/matchgate/pkg/encoding"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text]",
		Short: "Apply the pack32 encoding used by the /encoded endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = strings.TrimSuffix(string(data), "\n")
			}

			fmt.Fprintln(cmd.OutOrStdout(), encoding.Encode(input))
			return nil
		},
	}
}
