package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "wordpipe", app.BuildVersion())
			return err
		},
	}
}
