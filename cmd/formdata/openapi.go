package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	formdata "github.com/goliatone/go-formdata"
	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
	"github.com/goliatone/go-formdata/pkg/orchestrator"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/html"
)

const fetchTimeout = 30 * time.Second

type openAPIFlags struct {
	source    string
	operation string
	body      bool
	list      bool
	value     string
	preset    string
	format    string
	render    renderFlags
}

func newOpenAPICmd(a *app) *cobra.Command {
	var f openAPIFlags

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Derive the parameter model of an OpenAPI operation",
		Example: `  formdata openapi --source petstore.yaml --list
  formdata openapi --source petstore.yaml --operation listPets
  formdata openapi --source https://example.com/openapi.json --operation createPet --body --format html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runOpenAPI(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringVar(&f.operation, "operation", "", "operation id")
	cmd.Flags().BoolVar(&f.body, "body", false, "use the form-urlencoded request body instead of query parameters")
	cmd.Flags().BoolVar(&f.list, "list", false, "list operation ids")
	cmd.Flags().StringVar(&f.value, "value", "", "encoded value applied over the derived model")
	cmd.Flags().StringVar(&f.preset, "preset", "", "JSON preset with record overrides")
	cmd.Flags().StringVar(&f.format, "format", "form", "output: form, json, table or html")
	f.render.register(cmd)
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) runOpenAPI(cmd *cobra.Command, f openAPIFlags) error {
	src, err := pkgopenapi.ParseSource(strings.TrimSpace(f.source))
	if err != nil {
		return err
	}
	loader := formdata.NewLoader(
		pkgopenapi.WithHTTPFallback(fetchTimeout),
		pkgopenapi.WithLoaderLogger(a.logger),
	)
	parser := formdata.NewParser(pkgopenapi.WithParserLogger(a.logger))

	if f.list {
		doc, err := loader.Load(cmd.Context(), src)
		if err != nil {
			return err
		}
		operations, err := parser.Operations(cmd.Context(), doc)
		if err != nil {
			return err
		}
		for _, id := range pkgopenapi.OperationIDs(operations) {
			op := operations[id]
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\n", id, op.Method, op.Path)
		}
		return nil
	}
	if f.operation == "" {
		return errors.New("--operation is required unless --list is set")
	}

	options := []orchestrator.Option{
		orchestrator.WithLoader(loader),
		orchestrator.WithParser(parser),
		orchestrator.WithEditorOptions(a.editorOptions()...),
		orchestrator.WithLogger(a.logger),
	}
	if f.render.templates != "" {
		renderer, err := html.New(html.WithTemplatesDir(f.render.templates), html.WithLogger(a.logger))
		if err != nil {
			return err
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithRegistry(registry))
	}
	if f.preset != "" {
		data, err := os.ReadFile(f.preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithModelTransformer(transformer))
	}
	orch := orchestrator.New(options...)

	req := orchestrator.Request{
		Source:        src,
		OperationID:   f.operation,
		Value:         f.value,
		RenderOptions: f.render.renderOptions(),
	}
	if f.body {
		req.ModelOptions = []pkgopenapi.ModelOption{pkgopenapi.FromBody()}
	}

	if f.format == "html" {
		out, err := orch.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeOutput(cmd, f.render.output, out)
	}

	ed, err := orch.Editor(cmd.Context(), req)
	if err != nil {
		return err
	}
	switch f.format {
	case "json":
		return writeJSON(cmd, ed.Model())
	case "table":
		fmt.Fprintln(cmd.OutOrStdout(), modelTable(ed.Model()))
		return nil
	case "form":
		fmt.Fprintln(cmd.OutOrStdout(), ed.Value())
		return nil
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
}
