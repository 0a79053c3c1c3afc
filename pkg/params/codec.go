package params

import (
	"net/url"
	"strings"
)

// Decode parses an application/x-www-form-urlencoded string into a Model.
// Segments are split on '&' and then on the first '='; empty segments are
// skipped and a segment without '=' becomes a record with an empty value.
// Decoding never fails: a half with a malformed percent escape is kept as
// written, with only '+' translated to a space.
func Decode(serialized string) Model {
	model := Model{}
	for serialized != "" {
		var segment string
		segment, serialized, _ = strings.Cut(serialized, "&")
		if segment == "" {
			continue
		}
		name, value, _ := strings.Cut(segment, "=")
		model = append(model, Record{
			Name:  DecodeComponent(name),
			Value: DecodeComponent(value),
		})
	}
	return model
}

// Encode serialises the enabled records of model, preserving order. Names and
// values are form-encoded (spaces become '+'). An empty or fully disabled
// model encodes to the empty string.
func Encode(model Model) string {
	var buf strings.Builder
	for _, record := range model {
		if !record.Enabled() {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(EncodeComponent(record.Name))
		buf.WriteByte('=')
		buf.WriteString(EncodeComponent(record.Value))
	}
	return buf.String()
}

// EncodeComponent form-encodes a single name or value.
func EncodeComponent(s string) string {
	return url.QueryEscape(s)
}

// DecodeComponent form-decodes a single name or value, falling back to a
// '+'-only translation when s carries an invalid percent escape.
func DecodeComponent(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return decoded
}
