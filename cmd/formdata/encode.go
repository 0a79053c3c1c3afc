package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdata/pkg/params"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		file   string
		toClip bool
	)

	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Encode a model file (YAML or JSON)",
		Example: `  formdata encode --file model.yaml --copy`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := params.ReadModelFile(file)
			if err != nil {
				return err
			}
			value := params.Encode(model)
			fmt.Fprintln(cmd.OutOrStdout(), value)
			if toClip {
				return a.copyToClipboard(value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "model file")
	cmd.Flags().BoolVar(&toClip, "copy", false, "copy the encoded value to the clipboard")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
