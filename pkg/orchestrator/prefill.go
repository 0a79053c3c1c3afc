package orchestrator

import "github.com/goliatone/go-formdata/pkg/params"

// Prefill applies an encoded value over a derived model. Decoded pairs update
// the first unused record with the same name and enable it; pairs naming no
// record are appended as custom records. Records absent from the value keep
// their seeded value.
func Prefill(model params.Model, value string) params.Model {
	out := model.Clone()
	used := make([]bool, len(out))

	for _, pair := range params.Decode(value) {
		matched := false
		for i := range out {
			if used[i] || out[i].Name != pair.Name {
				continue
			}
			out[i].Value = pair.Value
			out[i].Schema.Enabled = params.Bool(true)
			used[i] = true
			matched = true
			break
		}
		if matched {
			continue
		}
		out = append(out, params.Record{
			Name:  pair.Name,
			Value: pair.Value,
			Schema: params.Schema{
				Enabled:  params.Bool(true),
				IsCustom: true,
			},
		})
		used = append(used, true)
	}
	return out
}
