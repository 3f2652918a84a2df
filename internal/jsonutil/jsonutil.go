// Package jsonutil formats RPC responses for the terminal.
package jsonutil

import (
	"bytes"
	"sort"

	"github.com/fatih/structs"
	"github.com/hokaccha/go-prettyjson"
)

var compact, indented *prettyjson.Formatter

func init() {
	compact = prettyjson.NewFormatter()
	compact.Indent = 0
	compact.Newline = ""

	indented = prettyjson.NewFormatter()
}

// SetColor enables or disables colored output.
func SetColor(enabled bool) {
	compact.DisabledColor = !enabled
	indented.DisabledColor = !enabled
}

// MarshalCompactPretty formats the fields of struct v one per line, sorted by name,
// with each value in compact JSON form.
func MarshalCompactPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	m := structs.Map(v)
	names := structs.Names(v)
	sort.Strings(names)
	for _, name := range names {
		b, err := compact.Marshal(m[name])
		if err != nil {
			return nil, err
		}
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.Write(b)
		buf.WriteRune('\n')
	}
	return buf.Bytes(), nil
}

// MarshalPretty formats any value as indented JSON.
func MarshalPretty(v any) ([]byte, error) {
	b, err := indented.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
