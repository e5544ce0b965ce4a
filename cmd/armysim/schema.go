package main

import (
	"os"

	"github.com/spf13/cobra"

	"pixelarmies/internal/config"
)

func newSchemaCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for armies.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.MarshalSchema(config.ArmiesSchema())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}
