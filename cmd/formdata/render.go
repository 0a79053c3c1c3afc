package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/html"
)

type renderFlags struct {
	output    string
	title     string
	name      string
	action    string
	templates string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&f.title, "title", "", "editor title")
	cmd.Flags().StringVar(&f.name, "name", "", "wrap the editor in a form posting the value under this name")
	cmd.Flags().StringVar(&f.action, "action", "", "form action when --name is set")
	cmd.Flags().StringVar(&f.templates, "templates", "", "directory with template overrides")
}

func (f *renderFlags) renderOptions() render.RenderOptions {
	return render.RenderOptions{
		Title:  f.title,
		Name:   f.name,
		Action: f.action,
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		file  string
		value string
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the HTML editor for a value or model file",
		Example: `  formdata render --value 'q=go' --allow-custom
  formdata render --file model.yaml --title Search -o editor.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := loadModel(file, value)
			if err != nil {
				return err
			}
			ed := editor.New(a.editorOptions()...)
			ed.SetModel(model)
			return a.renderHTML(cmd, ed, flags)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "model file")
	cmd.Flags().StringVar(&value, "value", "", "encoded value")
	flags.register(cmd)
	return cmd
}

func (a *app) renderHTML(cmd *cobra.Command, ed *editor.Editor, flags renderFlags) error {
	options := []html.Option{html.WithLogger(a.logger)}
	if flags.templates != "" {
		options = append(options, html.WithTemplatesDir(flags.templates))
	}
	renderer, err := html.New(options...)
	if err != nil {
		return err
	}
	out, err := renderer.Render(cmd.Context(), ed, flags.renderOptions())
	if err != nil {
		return err
	}
	return writeOutput(cmd, flags.output, out)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}
