package main

import (
	"context"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCmd(a *app) *cobra.Command {
	var name, data string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a data file and print the normalized records",
		Long: `Validate loads every record of --data into the --name schema and dumps it
back. The data file may hold one object or a list of objects; its format is
picked from the extension (.json, .yaml, .yml, .bson).`,
		Example: `  serialx validate --schema schemas.yaml --name User --data users.json
  SERIALX_SCHEMA=schemas.yaml serialx validate --name User --data users.yaml -o yaml`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Schema name")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Data file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("data")

	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		svc, err := a.service(ctx)
		if err != nil {
			return err
		}

		records, single, err := readRecords(ctx, a, data)
		if err != nil {
			return err
		}
		a.logger.Debug("validating records",
			zap.String("schema", name),
			zap.String("data", data),
			zap.Int("count", len(records)))

		out, err := svc.ValidateBatch(ctx, name, records)
		if err != nil {
			return err
		}
		if single {
			return a.print(out[0])
		}
		return a.print(out)
	})
	return cmd
}

// readRecords decodes a data file holding one object or a list of objects.
// single reports whether the file held one object.
func readRecords(ctx context.Context, a *app, path string) (records []map[string]any, single bool, err error) {
	codec, err := codecx.ForExtension(path)
	if err != nil {
		return nil, false, err
	}
	raw, err := a.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, err
	}

	decoded, err := codecx.Decode(codec, raw)
	if err != nil {
		return nil, false, err
	}
	if obj, ok := decoded.(map[string]any); ok {
		return []map[string]any{obj}, true, nil
	}

	records, err = codecx.DecodeRecords(codec, raw)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, errx.New("Data file holds no records", errx.TypeBadRequest).WithDetail("path", path)
	}
	return records, false, nil
}
