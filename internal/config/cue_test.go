// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// cueFieldNames lists the regular (non-definition) fields of a schema definition.
func cueFieldNames(t *testing.T, def string) []string {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("failed to lookup %s: %v", def, val.Err())
	}

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	var names []string
	for iter.Next() {
		names = append(names, strings.TrimSuffix(iter.Selector().String(), "?"))
	}
	slices.Sort(names)
	return names
}

// jsonFieldNames lists the JSON tag names of a struct's exported fields.
func jsonFieldNames(typ reflect.Type) []string {
	var names []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// The Go structs and the CUE schema must describe the same keys, or a field
// silently stops loading.
func TestSchemaMatchesStructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#Repo", reflect.TypeFor[RepoEntry]()},
	}

	for _, tt := range tests {
		cueFields := cueFieldNames(t, tt.def)
		goFields := jsonFieldNames(tt.typ)
		if !slices.Equal(cueFields, goFields) {
			t.Errorf("%s fields = %v, Go JSON tags = %v", tt.def, cueFields, goFields)
		}
	}
}

func TestDecodeWithSchema_TooLarge(t *testing.T) {
	t.Parallel()

	data := make([]byte, maxConfigFileSize+1)
	_, err := decodeWithSchema(data, "big.json")
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("decodeWithSchema() error = %v, want size error", err)
	}
}

func TestDecodeWithSchema_Timeouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		ok    bool
	}{
		{"0", true},
		{"90s", true},
		{"1m30s", true},
		{"1.5h", true},
		{"250ms", true},
		{"", false},
		{"10", false},
		{"-5s", false},
		{"soon", false},
	}

	for _, tt := range tests {
		_, err := decodeWithSchema([]byte(`{"repos": [], "timeout": "`+tt.value+`"}`), "cfg.json")
		if (err == nil) != tt.ok {
			t.Errorf("timeout %q: error = %v, want ok=%v", tt.value, err, tt.ok)
		}
	}
}

func TestFormatCUEError_NonCUE(t *testing.T) {
	t.Parallel()

	err := formatCUEError(errors.New("some error"), "cfg.json")
	if err == nil || err.Error() != "cfg.json: some error" {
		t.Errorf("formatCUEError() = %v", err)
	}
	if formatCUEError(nil, "cfg.json") != nil {
		t.Error("formatCUEError(nil) should be nil")
	}
}

func TestFormatFieldPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"command"}, "command"},
		{[]string{"repos", "0", "url"}, "repos[0].url"},
		{[]string{"repos", "12"}, "repos[12]"},
		{[]string{"0"}, "0"},
	}

	for _, tt := range tests {
		if got := formatFieldPath(tt.path); got != tt.want {
			t.Errorf("formatFieldPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
