package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newSchemasCmd(a *app) *cobra.Command {
	var describe string

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the schemas declared by the --schema files",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&describe, "describe", "", "Print the fields of one schema")

	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		svc, err := a.service(ctx)
		if err != nil {
			return err
		}
		if describe != "" {
			info, err := svc.Describe(describe)
			if err != nil {
				return err
			}
			return a.print(info)
		}
		return a.print(map[string]any{"schemas": svc.Schemas()})
	})
	return cmd
}
