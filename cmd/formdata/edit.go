package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		file   string
		value  string
		format string
		title  string
		toClip bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a value interactively in the terminal",
		Example: `  formdata edit --value 'q=go&page=1' --allow-custom --allow-disable
  formdata edit --file model.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := loadModel(file, value)
			if err != nil {
				return err
			}
			ed := editor.New(a.editorOptions()...)
			ed.SetModel(model)
			return a.runSession(cmd, ed, format, title, toClip)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "model file")
	cmd.Flags().StringVar(&value, "value", "", "encoded value")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatFormURLEncoded), "output format: form, json or pretty")
	cmd.Flags().StringVar(&title, "title", "", "menu title")
	cmd.Flags().BoolVar(&toClip, "copy", false, "copy the encoded value to the clipboard")
	return cmd
}

func (a *app) runSession(cmd *cobra.Command, ed *editor.Editor, format, title string, toClip bool) error {
	outputFormat, ok := tui.ParseOutputFormat(format)
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	renderer, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(outputFormat),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(cmd.Context(), ed, render.RenderOptions{Title: title})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if toClip {
		return a.copyToClipboard(ed.Value())
	}
	return nil
}
