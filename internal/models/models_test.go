package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRankedEntryJSONTags(t *testing.T) {
	cases := []struct {
		name        string
		entry       RankedEntry
		mustContain []string
		mustAbsent  []string
	}{
		{
			name:        "single_report_entry_omits_source",
			entry:       RankedEntry{EvaluationTime: 1.5, Resource: "Package[nginx]"},
			mustContain: []string{"\"evaluation_time\"", "\"resource\""},
			mustAbsent:  []string{"\"source\""},
		},
		{
			name:        "batch_entry_includes_source",
			entry:       RankedEntry{EvaluationTime: 1.5, Resource: "Package[nginx]", Source: "/tmp/a.yaml"},
			mustContain: []string{"\"source\""},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.entry)
			if err != nil {
				t.Fatalf("failed to marshal entry: %v", err)
			}
			encoded := string(payload)
			for _, key := range tc.mustContain {
				if !strings.Contains(encoded, key) {
					t.Fatalf("expected JSON to contain %s, got %s", key, encoded)
				}
			}
			for _, key := range tc.mustAbsent {
				if strings.Contains(encoded, key) {
					t.Fatalf("expected JSON to not contain %s, got %s", key, encoded)
				}
			}
		})
	}
}

func TestTimingUnmarshal(t *testing.T) {
	cases := []struct {
		name          string
		input         string
		wantValid     bool
		wantSeconds   float64
		wantMalformed bool
	}{
		{name: "float", input: "evaluation_time: 0.25\n", wantValid: true, wantSeconds: 0.25},
		{name: "integer", input: "evaluation_time: 3\n", wantValid: true, wantSeconds: 3},
		{name: "exponent", input: "evaluation_time: 5.0e-05\n", wantValid: true, wantSeconds: 5.0e-05},
		{name: "zero_is_valid", input: "evaluation_time: 0\n", wantValid: true, wantSeconds: 0},
		{name: "missing", input: "title: x\n"},
		{name: "null", input: "evaluation_time: ~\n"},
		{name: "text", input: "evaluation_time: soon\n", wantMalformed: true},
		{name: "mapping", input: "evaluation_time: {a: 1}\n", wantMalformed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var status ResourceStatus
			if err := yaml.Unmarshal([]byte(tc.input), &status); err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			got := status.EvaluationTime
			if got.Valid != tc.wantValid {
				t.Fatalf("expected valid=%v, got %+v", tc.wantValid, got)
			}
			if got.Valid && got.Seconds != tc.wantSeconds {
				t.Fatalf("expected %v seconds, got %v", tc.wantSeconds, got.Seconds)
			}
			if got.Malformed() != tc.wantMalformed {
				t.Fatalf("expected malformed=%v, got %+v", tc.wantMalformed, got)
			}
		})
	}
}

func TestMetricUnmarshalKeepsWellFormedTriples(t *testing.T) {
	input := `
name: time
label: Time
values:
- - total
  - Total
  - 12.5
- - file
  - File
  - 3
- - broken
- - config_retrieval
  - Config retrieval
  - fast
`
	var metric Metric
	if err := yaml.Unmarshal([]byte(input), &metric); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if metric.Label != "Time" {
		t.Fatalf("expected label Time, got %q", metric.Label)
	}
	if len(metric.Values) != 2 {
		t.Fatalf("expected 2 values, got %d: %+v", len(metric.Values), metric.Values)
	}
	if metric.Values[0] != (MetricValue{Category: "total", Label: "Total", Value: 12.5}) {
		t.Fatalf("unexpected first value: %+v", metric.Values[0])
	}
	if len(metric.Malformed) != 2 {
		t.Fatalf("expected 2 malformed entries, got %v", metric.Malformed)
	}
}

func TestMetricLabelFallsBackToName(t *testing.T) {
	var metric Metric
	if err := yaml.Unmarshal([]byte("name: events\nvalues: []\n"), &metric); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if metric.Label != "events" {
		t.Fatalf("expected label fallback to name, got %q", metric.Label)
	}
}

func TestResourceStatusesPreserveOrder(t *testing.T) {
	input := `
resource_statuses:
  Package[zsh]:
    resource_type: Package
    title: zsh
    evaluation_time: 1
  File[/etc/motd]:
    resource_type: File
    title: /etc/motd
  Service[sshd]:
    resource_type: Service
    events: "not a list"
`
	var report Report
	if err := yaml.Unmarshal([]byte(input), &report); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	want := []string{"Package[zsh]", "File[/etc/motd]", "Service[sshd]"}
	if len(report.ResourceStatuses) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(report.ResourceStatuses))
	}
	for i, id := range want {
		if report.ResourceStatuses[i].ID != id {
			t.Fatalf("expected status %d to be %s, got %s", i, id, report.ResourceStatuses[i].ID)
		}
	}

	broken, ok := report.ResourceStatuses.Lookup("Service[sshd]")
	if !ok || broken.Invalid == "" {
		t.Fatalf("expected undecodable status to be marked invalid, got %+v", broken)
	}
	if _, ok := report.ResourceStatuses.Lookup("Exec[missing]"); ok {
		t.Fatal("did not expect lookup of unknown resource to succeed")
	}
}

func TestLogEntryString(t *testing.T) {
	entry := LogEntry{
		Level:   "notice",
		Message: "Applied catalog in 3.21 seconds",
		Source:  "Puppet",
		Time:    "2026-02-17 10:00:00.000000000 +00:00",
	}
	want := "2026-02-17 10:00:00.000000000 +00:00 Puppet (notice): Applied catalog in 3.21 seconds"
	if got := entry.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := (LogEntry{Message: "bare"}).String(); got != "bare" {
		t.Fatalf("expected bare message, got %q", got)
	}
}

func TestResourceIdentifiers(t *testing.T) {
	cases := []struct {
		id        string
		wantType  string
		wantTitle string
		wantErr   bool
	}{
		{id: "Package[nginx]", wantType: "Package", wantTitle: "nginx"},
		{id: "File[/etc/ssh/sshd_config]", wantType: "File", wantTitle: "/etc/ssh/sshd_config"},
		{id: "Apache::Vhost[default]", wantType: "Apache::Vhost", wantTitle: "default"},
		{id: "malformed", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			typ, title, err := ParseResourceID(tc.id)
			if tc.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError for %q, got %v", tc.id, err)
				}
				if !strings.Contains(parseErr.Error(), tc.id) {
					t.Fatalf("expected error to mention %q, got %v", tc.id, parseErr)
				}
				if _, err := ResourceType(tc.id); err == nil {
					t.Fatalf("expected ResourceType error for %q", tc.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ != tc.wantType || title != tc.wantTitle {
				t.Fatalf("expected %s/%s, got %s/%s", tc.wantType, tc.wantTitle, typ, title)
			}
			if got, _ := ResourceType(tc.id); got != tc.wantType {
				t.Fatalf("expected ResourceType %s, got %s", tc.wantType, got)
			}
		})
	}
}
