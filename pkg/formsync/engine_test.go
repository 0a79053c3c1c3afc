package formsync_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/formsync"
	"github.com/goliatone/go-formdata/pkg/params"
)

type recorder struct {
	values []string
	models []params.Model
}

func (r *recorder) attach(e *formsync.Engine) {
	e.Subscribe(formsync.EventValueChanged, func(evt formsync.Event) {
		r.values = append(r.values, evt.Value)
	})
	e.Subscribe(formsync.EventModelChanged, func(evt formsync.Event) {
		r.models = append(r.models, evt.Model)
	})
}

func mixedModel() params.Model {
	return params.Model{
		{Binding: "query", Name: "i1", Value: "v1", Schema: params.Schema{Enabled: params.Bool(true), InputLabel: "label1"}},
		{Binding: "query", Name: "i2", Value: "v2", Schema: params.Schema{Enabled: params.Bool(true), IsCustom: true, InputLabel: "label2"}},
		{Binding: "query", Name: "i3", Value: "v3", Required: true, Schema: params.Schema{Enabled: params.Bool(true), IsCustom: true, InputLabel: "label3"}},
	}
}

func TestEngine_SetValueDecodes(t *testing.T) {
	engine := formsync.New()
	rec := &recorder{}
	rec.attach(engine)

	if !engine.SetValue("x+test=x+value&param=value") {
		t.Fatalf("expected change")
	}

	want := params.Model{{Name: "x test", Value: "x value"}, {Name: "param", Value: "value"}}
	if diff := cmp.Diff(want, engine.Model()); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	if len(rec.values) != 1 || rec.values[0] != "x+test=x+value&param=value" {
		t.Fatalf("unexpected value events: %q", rec.values)
	}
	if len(rec.models) != 1 {
		t.Fatalf("expected one model event, got %d", len(rec.models))
	}
	if engine.Value() != "x+test=x+value&param=value" {
		t.Fatalf("value must be stored as given, got %q", engine.Value())
	}
}

func TestEngine_SetValueIsIdempotent(t *testing.T) {
	engine := formsync.New()
	rec := &recorder{}
	rec.attach(engine)

	engine.SetValue("a=b")
	if engine.SetValue("a=b") {
		t.Fatalf("second identical SetValue must report no change")
	}
	if len(rec.values) != 1 || len(rec.models) != 1 {
		t.Fatalf("expected a single notification per kind, got %d/%d", len(rec.values), len(rec.models))
	}
}

func TestEngine_SetValueDoesNotReencode(t *testing.T) {
	engine := formsync.New()
	rec := &recorder{}
	rec.attach(engine)

	engine.SetValue("x test=x value")
	if engine.Value() != "x test=x value" {
		t.Fatalf("value rewritten during decode: %q", engine.Value())
	}
	if len(rec.values) != 1 {
		t.Fatalf("decode must not trigger a second value event, got %q", rec.values)
	}
}

func TestEngine_AddRenameSetValueRemove(t *testing.T) {
	engine := formsync.New()
	rec := &recorder{}
	rec.attach(engine)

	engine.Add()
	if got := engine.Model(); got.Len() != 1 || !got[0].Custom() {
		t.Fatalf("expected one custom record, got %+v", got)
	}
	if engine.Value() != "=" {
		t.Fatalf("empty custom record encodes as '=', got %q", engine.Value())
	}

	if err := engine.SetName(0, "a"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := engine.SetRecordValue(0, "b"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if engine.Value() != "a=b" {
		t.Fatalf("want a=b, got %q", engine.Value())
	}

	if err := engine.RemoveAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if engine.Value() != "" {
		t.Fatalf("removing the last record must yield an empty string, got %q", engine.Value())
	}

	wantValues := []string{"=", "a=", "a=b", ""}
	if diff := cmp.Diff(wantValues, rec.values); diff != "" {
		t.Fatalf("value events mismatch (-want +got):\n%s", diff)
	}
	if len(rec.models) != 4 {
		t.Fatalf("expected four model events, got %d", len(rec.models))
	}
}

func TestEngine_MutationIdempotence(t *testing.T) {
	engine := formsync.New(formsync.WithModel(mixedModel()))
	rec := &recorder{}
	rec.attach(engine)

	for i := 0; i < 2; i++ {
		if err := engine.SetRecordValue(0, "test-updated"); err != nil {
			t.Fatalf("set value: %v", err)
		}
	}
	if len(rec.values) != 1 || len(rec.models) != 1 {
		t.Fatalf("repeated mutation must notify once, got %d/%d", len(rec.values), len(rec.models))
	}
	if engine.Value() != "i1=test-updated&i2=v2&i3=v3" {
		t.Fatalf("unexpected value %q", engine.Value())
	}
}

func TestEngine_DisableAndReenable(t *testing.T) {
	engine := formsync.New(formsync.WithModel(mixedModel()))
	rec := &recorder{}
	rec.attach(engine)

	if err := engine.SetEnabled(0, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if engine.Value() != "i2=v2&i3=v3" {
		t.Fatalf("want i2=v2&i3=v3, got %q", engine.Value())
	}
	if model := engine.Model(); model[0].Enabled() {
		t.Fatalf("record 0 should be disabled")
	}

	if err := engine.SetEnabled(0, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if engine.Value() != "i1=v1&i2=v2&i3=v3" {
		t.Fatalf("re-enable should restore the original value, got %q", engine.Value())
	}

	if err := engine.SetName(1, "test-updated"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if engine.Value() != "i1=v1&test-updated=v2&i3=v3" {
		t.Fatalf("unexpected value %q", engine.Value())
	}
	if len(rec.values) != 3 {
		t.Fatalf("expected three value events, got %q", rec.values)
	}
}

func TestEngine_DisabledRecordStillEditable(t *testing.T) {
	engine := formsync.New(formsync.WithModel(mixedModel()))
	rec := &recorder{}
	rec.attach(engine)

	_ = engine.SetEnabled(0, false)
	rec.values = nil
	rec.models = nil

	if err := engine.SetRecordValue(0, "hidden"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if len(rec.models) != 1 {
		t.Fatalf("model event expected for disabled record edit")
	}
	if len(rec.values) != 0 {
		t.Fatalf("disabled record edit must not change the value, got %q", rec.values)
	}
}

func TestEngine_OutOfRangeHasNoSideEffects(t *testing.T) {
	engine := formsync.New(formsync.WithValue("a=1"))
	rec := &recorder{}
	rec.attach(engine)

	err := engine.SetRecordValue(5, "x")
	if !errors.Is(err, params.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := engine.RemoveAt(-1); !errors.Is(err, params.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if len(rec.values) != 0 || len(rec.models) != 0 {
		t.Fatalf("no events expected")
	}
	if engine.Value() != "a=1" {
		t.Fatalf("value changed: %q", engine.Value())
	}
}

func TestEngine_SetModel(t *testing.T) {
	engine := formsync.New()
	rec := &recorder{}
	rec.attach(engine)

	engine.SetModel(params.Model{{Name: "name", Value: "value", Schema: params.Schema{Enabled: params.Bool(true)}}})
	if engine.Value() != "name=value" {
		t.Fatalf("want name=value, got %q", engine.Value())
	}
	if len(rec.models) != 1 || len(rec.values) != 1 {
		t.Fatalf("expected one event per kind, got %d/%d", len(rec.models), len(rec.values))
	}

	engine.SetModel(params.Model{{Name: "name", Value: "value"}})
	if len(rec.models) != 1 || len(rec.values) != 1 {
		t.Fatalf("equal model must not notify")
	}
}

func TestEngine_Unsubscribe(t *testing.T) {
	engine := formsync.New()
	calls := 0
	sub := engine.Subscribe(formsync.EventValueChanged, func(formsync.Event) { calls++ })
	other := engine.Subscribe(formsync.EventValueChanged, func(formsync.Event) {})

	engine.SetValue("a=1")
	if !engine.Unsubscribe(sub) {
		t.Fatalf("expected unsubscribe to succeed")
	}
	if engine.Unsubscribe(sub) {
		t.Fatalf("second unsubscribe must report false")
	}
	engine.SetValue("a=2")
	if calls != 1 {
		t.Fatalf("handler called %d times after unsubscribe", calls)
	}
	if !engine.Unsubscribe(other) {
		t.Fatalf("other subscription should still be registered")
	}
	if engine.Unsubscribe(formsync.Subscription{}) {
		t.Fatalf("zero subscription must not unsubscribe anything")
	}
}

func TestEngine_SingleSlotHandlers(t *testing.T) {
	engine := formsync.New()
	if engine.ChangeHandler() != nil || engine.ModelHandler() != nil {
		t.Fatalf("slots should start empty")
	}

	var first, second, model bool
	engine.OnChange(func(formsync.Event) { first = true })
	engine.OnChange(func(formsync.Event) { second = true })
	engine.OnModel(func(formsync.Event) { model = true })
	if engine.ChangeHandler() == nil {
		t.Fatalf("expected change handler to be registered")
	}

	engine.SetValue("a=b")
	engine.OnChange(nil)
	engine.OnModel(nil)

	if first {
		t.Fatalf("replaced handler must not be called")
	}
	if !second || !model {
		t.Fatalf("current slot handlers must be called")
	}
	if engine.ChangeHandler() != nil || engine.ModelHandler() != nil {
		t.Fatalf("nil must clear the slot")
	}
}

func TestEngine_HandlerMayUnsubscribeDuringEmit(t *testing.T) {
	engine := formsync.New()
	var sub formsync.Subscription
	calls := 0
	sub = engine.Subscribe(formsync.EventValueChanged, func(formsync.Event) {
		calls++
		engine.Unsubscribe(sub)
	})
	engine.SetValue("a=1")
	engine.SetValue("a=2")
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestEngine_LogsMutations(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	engine := formsync.New(formsync.WithLogger(logger))
	engine.Add()

	if !strings.Contains(buf.String(), "op=add") {
		t.Fatalf("expected mutation log, got %q", buf.String())
	}
}
