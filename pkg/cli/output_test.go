package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

func (s sample) Table() Table {
	return Table{
		Title:  "sample",
		Header: []string{"NAME", "BYTES"},
		Rows:   [][]string{{s.Name, FormatBytes(int64(s.Bytes))}},
	}
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Output(sample{Name: "a", Bytes: 3}, OutputOptions{Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	var got sample
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "a" || got.Bytes != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{Name: "a", Bytes: 3}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: a") || !strings.Contains(out, "bytes: 3") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestOutput_Query(t *testing.T) {
	var buf bytes.Buffer
	err := Output(sample{Name: "a", Bytes: 3}, OutputOptions{Format: FormatJSON, Query: ".bytes", Writer: &buf})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "3" {
		t.Errorf("query output = %q", buf.String())
	}

	if err := Output(sample{}, OutputOptions{Query: ".[", Writer: &buf}); err == nil {
		t.Error("invalid query should fail")
	}
}

func TestQuery_MultipleResults(t *testing.T) {
	v, err := Query([]sample{{Name: "a"}, {Name: "b"}}, ".[].name")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got, ok := v.([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Query = %#v", v)
	}

	if _, err := Query(sample{}, "empty"); err == nil {
		t.Error("empty result should fail")
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{Name: "queue", Bytes: 2048}, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"sample", "NAME", "queue", "2.00 KB", "╭", "╰"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	// Non-tabler values fall back to YAML.
	buf.Reset()
	if err := Output(map[string]int{"x": 1}, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(buf.String(), "x: 1") {
		t.Errorf("fallback output = %q", buf.String())
	}
}

func TestOutput_RawAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := Output([]byte{1, 2, 3}, OutputOptions{Format: FormatRaw, File: path}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("file = %v", data)
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatYAML, "json": FormatJSON, "table": FormatTable} {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("ParseOutputFormat(xml) should fail")
	}
}

func TestFormat(t *testing.T) {
	if got := FormatBytes(512); got != "512 B" {
		t.Errorf("FormatBytes(512) = %q", got)
	}
	if got := FormatBytes(3 << 20); got != "3.00 MB" {
		t.Errorf("FormatBytes(3MB) = %q", got)
	}
	if got := FormatRate(2048); got != "2.00 KB/s" {
		t.Errorf("FormatRate(2048) = %q", got)
	}
	if got := FormatDuration(250 * time.Millisecond); got != "250ms" {
		t.Errorf("FormatDuration(250ms) = %q", got)
	}
	if got := FormatDuration(90 * time.Second); got != "1m30.0s" {
		t.Errorf("FormatDuration(90s) = %q", got)
	}
}
