package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("yaml should give YAMLFormatter")
	}
	tf, ok := NewFormatter("unknown", true).(*TableFormatter)
	if !ok {
		t.Fatal("unknown should fall back to TableFormatter")
	}
	if !tf.Wide {
		t.Error("wide not passed through")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	task := domain.Task{ID: "t1", Title: "Write", Status: "pending"}
	if err := (&JSONFormatter{}).Format(&buf, task); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"id": "t1"`, `"title": "Write"`, `"description": ""`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "owner_id") {
		t.Error("empty owner_id should be omitted")
	}

	buf.Reset()
	if err := (&JSONFormatter{}).Format(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "null" {
		t.Errorf("Format(nil) = %q", got)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	tasks := []domain.Task{
		{ID: "t1", Title: "Write", Status: "pending", OwnerID: "u1"},
	}
	if err := (&YAMLFormatter{}).Format(&buf, tasks); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"- description: \"\"", "  id: t1", "  owner_id: u1", "  status: pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestYAMLFormatter_LargeIntegers(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int64{"expires_at": 9999999999}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "expires_at: 9999999999" {
		t.Errorf("Format() = %q", got)
	}
}

func TestYAMLFormatter_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, make(chan int)); err == nil {
		t.Error("Format(chan) should fail")
	}
}
