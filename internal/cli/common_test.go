package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	view := newView(RecordKey{Namespace: "ns", Name: "n"}, RecordState{Value: "v"})

	if err := outputJSON(&buf, view); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	// embedded state fields are flattened
	var v map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	for _, key := range []string{"namespace", "name", "value", "flag", "updatedAt"} {
		if _, ok := v[key]; !ok {
			t.Errorf("outputJSON() missing %q in %s", key, buf.String())
		}
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("outputJSON() should end with a newline, got %q", buf.String())
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    RecordKey
		wantErr bool
	}{
		{"plain", []string{"ns", "n"}, RecordKey{Namespace: "ns", Name: "n"}, false},
		{"trims spaces", []string{" ns ", "\tn"}, RecordKey{Namespace: "ns", Name: "n"}, false},
		{"slashes allowed", []string{"a/b", "c/d"}, RecordKey{Namespace: "a/b", Name: "c/d"}, false},
		{"empty namespace", []string{"", "n"}, RecordKey{}, true},
		{"empty name", []string{"ns", " "}, RecordKey{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKey(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Errorf("formatTime(zero) = %q, want %q", got, "-")
	}
	if got := formatTime(testNow); got != "2026-01-02T03:04:05Z" {
		t.Errorf("formatTime() = %q", got)
	}
}

func TestPrintFunctions(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	PrintSuccess(&buf, "Success message")
	PrintWarning(&buf, "Warning message")
	PrintError(&buf, "Error message")
	PrintLabelValue(&buf, "Label", "value")
	PrintEmptyState(&buf, "Nothing here")

	want := "✓ Success message\n⚠ Warning message\n✗ Error message\n  Label: value\n  Nothing here\n"
	if buf.String() != want {
		t.Errorf("print output = %q, want %q", buf.String(), want)
	}
}

func TestPrintTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintTable(&buf, []string{"Name", "Value"}, [][]string{
		{"a", "1"},
		{"longer", "22"},
	})

	want := "  Name    Value\n" +
		"  ------  -----\n" +
		"  a       1    \n" +
		"  longer  22   \n"
	if buf.String() != want {
		t.Errorf("PrintTable() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	PrintTable(&buf, []string{"Name"}, nil)
	if buf.Len() != 0 {
		t.Errorf("PrintTable() with no rows should print nothing, got %q", buf.String())
	}
}

func TestPrintCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 records"},
		{1, "1 record"},
		{2, "2 records"},
	}
	for _, tt := range tests {
		if got := PrintCount(tt.count, "record", "records"); got != tt.want {
			t.Errorf("PrintCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
