package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdata/pkg/params"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	disabledStyle = cellStyle.Faint(true)
)

func newDecodeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <value>",
		Short: "Print the parameters of an encoded value",
		Example: `  formdata decode 'q=go+lang&page=2'
  formdata decode --json 'a=1&b'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := params.Decode(args[0])
			a.logger.WithField("records", model.Len()).Debug("formdata: decoded value")
			if asJSON {
				return writeJSON(cmd, model)
			}
			fmt.Fprintln(cmd.OutOrStdout(), modelTable(model))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the model as JSON")
	return cmd
}

func modelTable(model params.Model) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "VALUE", "ENABLED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(model) && !model[row].Enabled() {
				return disabledStyle
			}
			return cellStyle
		})
	for i, record := range model {
		t.Row(strconv.Itoa(i), record.Name, record.Value, strconv.FormatBool(record.Enabled()))
	}
	return t.Render()
}

func writeJSON(cmd *cobra.Command, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}
