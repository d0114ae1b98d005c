package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "matchgate",
		Short:   "matchgate — caching gateway for the football match listing",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newEncodeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
