// Package formsync keeps an encoded form string and its params.Model in step.
// An Engine owns both representations plus the last known encoded value, so
// setting the string decodes it once and mutating a record re-encodes once.
// Observers subscribe per event kind; the engine notifies them only when the
// observable state actually changed, which makes repeated updates idempotent.
//
// Engines are not safe for concurrent use. Callers serialise UI events.
package formsync
