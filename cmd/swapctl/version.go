package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/swapmatch-backend/internal/app"
)

func newVersionCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := struct {
				Version string `json:"version" yaml:"version"`
			}{app.BuildVersion()}
			return root.printer().print(v, func(w io.Writer) { fmt.Fprintln(w, v.Version) })
		},
	}
}
