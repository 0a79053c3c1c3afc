package params

// Binding values commonly produced by the OpenAPI helper. The engine treats the
// field as an opaque tag and never interprets it.
const (
	BindingQuery = "query"
	BindingBody  = "body"
)

// Example describes a documented example value for a parameter.
type Example struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	HasName bool   `json:"hasName,omitempty" yaml:"hasName,omitempty"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Schema carries per-record metadata. Enabled is a pointer so an absent flag
// can be told apart from an explicit false; absent means enabled. IsCustom
// defaults to false. The display fields (InputLabel, Pattern, Examples, Type,
// Enum) are passed through to renderers untouched.
type Schema struct {
	Enabled    *bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	IsCustom   bool      `json:"isCustom,omitempty" yaml:"isCustom,omitempty"`
	InputLabel string    `json:"inputLabel,omitempty" yaml:"inputLabel,omitempty"`
	Pattern    string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Examples   []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
	Type       string    `json:"type,omitempty" yaml:"type,omitempty"`
	Enum       []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// IsEnabled reports the effective enabled flag.
func (s Schema) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Record is one logical form field.
type Record struct {
	Name           string `json:"name" yaml:"name"`
	Value          string `json:"value" yaml:"value"`
	Binding        string `json:"binding,omitempty" yaml:"binding,omitempty"`
	Required       bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	HasDescription bool   `json:"hasDescription,omitempty" yaml:"hasDescription,omitempty"`
	Schema         Schema `json:"schema" yaml:"schema"`
}

// Enabled reports whether the record contributes to the encoded string.
func (r Record) Enabled() bool {
	return r.Schema.IsEnabled()
}

// Custom reports whether the record was added by the user.
func (r Record) Custom() bool {
	return r.Schema.IsCustom
}

// Bool returns a pointer to b, handy when building Schema literals.
func Bool(b bool) *bool {
	return &b
}
