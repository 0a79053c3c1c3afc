package editor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/formsync"
	"github.com/goliatone/go-formdata/pkg/params"
)

func mixedModel() params.Model {
	return params.Model{
		{
			Binding: "query", Name: "i1", Value: "v1",
			Description: "first", HasDescription: true,
			Schema: params.Schema{Enabled: params.Bool(true), InputLabel: "label1"},
		},
		{
			Binding: "query", Name: "i2", Value: "v2",
			Schema: params.Schema{Enabled: params.Bool(true), IsCustom: true, InputLabel: "label2"},
		},
		{
			Binding: "query", Name: "i3", Value: "v3", Required: true,
			Schema: params.Schema{Enabled: params.Bool(true), IsCustom: true, InputLabel: "label3"},
		},
	}
}

func newMixedEditor(options ...editor.Option) *editor.Editor {
	base := []editor.Option{
		editor.WithAllowCustom(true),
		editor.WithAllowDisableParams(true),
		editor.WithAllowHideOptional(true),
	}
	ed := editor.New(append(base, options...)...)
	ed.SetModel(mixedModel())
	return ed
}

func TestEditor_AddRequiresAllowCustom(t *testing.T) {
	ed := editor.New()
	if err := ed.Add(); !errors.Is(err, editor.ErrCustomNotAllowed) {
		t.Fatalf("expected ErrCustomNotAllowed, got %v", err)
	}
	if ed.Model().Len() != 0 {
		t.Fatalf("model must stay empty")
	}

	custom := editor.New(editor.WithAllowCustom(true))
	if err := custom.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	model := custom.Model()
	if model.Len() != 1 || model[0].Name != "" || model[0].Value != "" {
		t.Fatalf("expected a single empty record, got %+v", model)
	}
}

func TestEditor_DisableToggle(t *testing.T) {
	ed := editor.New(editor.WithAllowDisableParams(true))
	ed.SetModel(params.Model{{Name: "name", Value: "value", Schema: params.Schema{Enabled: params.Bool(true)}}})

	if err := ed.SetEnabled(0, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if ed.Value() != "" {
		t.Fatalf("disabled record must leave the value, got %q", ed.Value())
	}
	if err := ed.SetEnabled(0, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if ed.Value() != "name=value" {
		t.Fatalf("want name=value, got %q", ed.Value())
	}
}

func TestEditor_DisableNotAllowed(t *testing.T) {
	ed := editor.New()
	ed.SetEncoded("a=1")
	if err := ed.SetEnabled(0, false); !errors.Is(err, editor.ErrDisableNotAllowed) {
		t.Fatalf("expected ErrDisableNotAllowed, got %v", err)
	}
	if ed.Value() != "a=1" {
		t.Fatalf("value changed: %q", ed.Value())
	}
}

func TestEditor_MixedModel(t *testing.T) {
	ed := newMixedEditor()

	if err := ed.SetEnabled(0, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if ed.Model()[0].Enabled() {
		t.Fatalf("record 0 should be disabled")
	}
	if ed.Value() != "i2=v2&i3=v3" {
		t.Fatalf("want i2=v2&i3=v3, got %q", ed.Value())
	}
	if err := ed.SetEnabled(0, true); err != nil {
		t.Fatalf("enable: %v", err)
	}

	if err := ed.SetValue(0, "test-updated"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if ed.Value() != "i1=test-updated&i2=v2&i3=v3" {
		t.Fatalf("unexpected value %q", ed.Value())
	}

	if err := ed.Rename(1, "test-updated"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if ed.Value() != "i1=test-updated&test-updated=v2&i3=v3" {
		t.Fatalf("unexpected value %q", ed.Value())
	}
}

func TestEditor_CustomOnlyOperations(t *testing.T) {
	ed := newMixedEditor()

	if err := ed.Rename(0, "x"); !errors.Is(err, editor.ErrNotCustom) {
		t.Fatalf("expected ErrNotCustom, got %v", err)
	}
	if err := ed.Remove(7); !errors.Is(err, params.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	if err := ed.Remove(1); err != nil {
		t.Fatalf("remove custom: %v", err)
	}
	if ed.Value() != "i1=v1&i3=v3" {
		t.Fatalf("unexpected value %q", ed.Value())
	}
}

func TestEditor_RemoveDecodedRecord(t *testing.T) {
	for name, ed := range map[string]*editor.Editor{
		"default policy": editor.New(),
		"allow custom":   editor.New(editor.WithAllowCustom(true)),
	} {
		t.Run(name, func(t *testing.T) {
			ed.SetEncoded("x+test=x+value")
			if ed.Model()[0].Custom() {
				t.Fatalf("decoded records are not custom")
			}
			if err := ed.Remove(0); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if ed.Model().Len() != 0 || ed.Value() != "" {
				t.Fatalf("expected empty editor, got %d records and %q", ed.Model().Len(), ed.Value())
			}
		})
	}
}

func TestEditor_RowsRemovable(t *testing.T) {
	model := params.Model{
		{Name: "q", Value: "go"},
		{Name: "extra", Schema: params.Schema{IsCustom: true}},
	}
	cases := []struct {
		name    string
		options []editor.Option
		want    []bool
	}{
		{name: "custom rows only", want: []bool{false, true}},
		{name: "allow custom", options: []editor.Option{editor.WithAllowCustom(true)}, want: []bool{true, true}},
		{name: "read only", options: []editor.Option{editor.WithAllowCustom(true), editor.WithReadOnly(true)}, want: []bool{false, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ed := editor.New(tc.options...)
			ed.SetModel(model)
			var got []bool
			for _, row := range ed.Rows() {
				got = append(got, row.Removable)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("removable mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEditor_ReadOnlyRejectsMutations(t *testing.T) {
	for _, opt := range []editor.Option{editor.WithReadOnly(true), editor.WithDisabled(true)} {
		ed := newMixedEditor(opt)
		checks := map[string]error{
			"add":     ed.Add(),
			"remove":  ed.Remove(1),
			"rename":  ed.Rename(1, "x"),
			"value":   ed.SetValue(0, "x"),
			"enabled": ed.SetEnabled(0, false),
		}
		for name, err := range checks {
			if !errors.Is(err, editor.ErrReadOnly) {
				t.Fatalf("%s: expected ErrReadOnly, got %v", name, err)
			}
		}
		if ed.Value() != "i1=v1&i2=v2&i3=v3" {
			t.Fatalf("value changed: %q", ed.Value())
		}
		for _, row := range ed.Rows() {
			if !row.Disabled {
				t.Fatalf("row %d should be marked disabled", row.Index)
			}
		}
	}
}

func TestEditor_RowsHideOptional(t *testing.T) {
	ed := editor.New(editor.WithAllowHideOptional(true))
	ed.SetModel(params.Model{
		{Binding: "query", Name: "i1", Required: false},
		{Binding: "query", Name: "i2", Required: true},
	})

	if !ed.HasOptional() {
		t.Fatalf("optional toggle should be offered")
	}
	rows := ed.Rows()
	if !rows[0].Hidden || rows[1].Hidden {
		t.Fatalf("unexpected visibility: %v/%v", rows[0].Hidden, rows[1].Hidden)
	}

	ed.ShowOptional(true)
	if !ed.OptionalVisible() {
		t.Fatalf("toggle state not stored")
	}
	if ed.Rows()[0].Hidden {
		t.Fatalf("optional row should be visible after toggle")
	}
	if ed.Value() != "i1=&i2=" {
		t.Fatalf("visibility must not affect the value, got %q", ed.Value())
	}
}

func TestEditor_RowsDocs(t *testing.T) {
	ed := newMixedEditor()
	rows := ed.Rows()

	want := editor.Row{
		Index:     0,
		Name:      "i1",
		Value:     "v1",
		Label:     "label1",
		Binding:   "query",
		Enabled:   true,
		Hidden:    true,
		HasDocs:   true,
		Docs:      "first",
		Removable: true,
		Record:    mixedModel()[0],
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if rows[1].HasDocs || !rows[1].Custom {
		t.Fatalf("custom rows carry no docs")
	}

	noDocs := newMixedEditor(editor.WithNoDocs(true))
	if noDocs.Rows()[0].HasDocs {
		t.Fatalf("noDocs must suppress documentation")
	}
}

func TestEditor_EventsThroughEngine(t *testing.T) {
	engine := formsync.New()
	ed := editor.New(editor.WithEngine(engine), editor.WithAllowCustom(true))

	var values []string
	ed.Engine().OnChange(func(evt formsync.Event) {
		values = append(values, evt.Value)
	})

	ed.SetEncoded("a=b")
	if err := ed.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	if diff := cmp.Diff([]string{"a=b", "a=b&="}, values); diff != "" {
		t.Fatalf("value events mismatch (-want +got):\n%s", diff)
	}
	if ed.Engine() != engine {
		t.Fatalf("editor must wrap the supplied engine")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := editor.Config{AllowCustom: true, AllowDisableParams: true, NoDocs: true, Narrow: true}
	ed := editor.New(cfg.Options()...)

	want := editor.Settings{AllowCustom: true, AllowDisableParams: true, NoDocs: true, Narrow: true}
	if diff := cmp.Diff(want, ed.Settings()); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}
