package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is one Puppet agent run as written to last_run_report.yaml.
type Report struct {
	Host                 string            `yaml:"host"`
	Environment          string            `yaml:"environment"`
	Time                 string            `yaml:"time"` // Puppet writes "2006-01-02 15:04:05.999 -07:00"
	Kind                 string            `yaml:"kind"`
	PuppetVersion        string            `yaml:"puppet_version"`
	ReportFormat         int               `yaml:"report_format"`
	ConfigurationVersion string            `yaml:"configuration_version"`
	TransactionUUID      string            `yaml:"transaction_uuid"`
	Status               string            `yaml:"status"`
	Noop                 bool              `yaml:"noop"`
	Logs                 []LogEntry        `yaml:"logs"`
	Metrics              map[string]Metric `yaml:"metrics"`
	ResourceStatuses     ResourceStatuses  `yaml:"resource_statuses"`
}

// LogEntry is a single log line captured during the run.
type LogEntry struct {
	Level   string   `yaml:"level"`
	Message string   `yaml:"message"`
	Source  string   `yaml:"source"`
	Time    string   `yaml:"time"`
	File    string   `yaml:"file"`
	Line    int      `yaml:"line"`
	Tags    []string `yaml:"tags"`
}

// String renders the entry the way Puppet prints log lines in reports.
func (l LogEntry) String() string {
	var b strings.Builder
	if l.Time != "" {
		b.WriteString(l.Time)
		b.WriteString(" ")
	}
	if l.Source != "" {
		b.WriteString(l.Source)
		b.WriteString(" ")
	}
	if l.Level != "" {
		fmt.Fprintf(&b, "(%s)", l.Level)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(l.Message)
	return b.String()
}

// Metric is a named metric group such as "time" or "resources".
type Metric struct {
	Name   string
	Label  string
	Values []MetricValue
	// Malformed holds value entries that were not [category, label, number] triples.
	Malformed []string
}

// MetricValue is one (category, label, value) triple of a metric group.
type MetricValue struct {
	Category string
	Label    string
	Value    float64
}

// UnmarshalYAML decodes a metric group, keeping well formed triples and
// recording the rest in Malformed.
func (m *Metric) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name   string      `yaml:"name"`
		Label  string      `yaml:"label"`
		Values []yaml.Node `yaml:"values"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	m.Name = raw.Name
	m.Label = raw.Label
	if m.Label == "" {
		m.Label = raw.Name
	}
	m.Values = make([]MetricValue, 0, len(raw.Values))
	m.Malformed = nil

	for i := range raw.Values {
		value, err := decodeMetricValue(&raw.Values[i])
		if err != nil {
			m.Malformed = append(m.Malformed, err.Error())
			continue
		}
		m.Values = append(m.Values, value)
	}
	return nil
}

func decodeMetricValue(node *yaml.Node) (MetricValue, error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 3 {
		return MetricValue{}, fmt.Errorf("line %d: expected [category, label, value]", node.Line)
	}

	var value MetricValue
	if err := node.Content[0].Decode(&value.Category); err != nil {
		return MetricValue{}, fmt.Errorf("line %d: category: %w", node.Line, err)
	}
	if err := node.Content[1].Decode(&value.Label); err != nil {
		return MetricValue{}, fmt.Errorf("line %d: label: %w", node.Line, err)
	}
	if err := node.Content[2].Decode(&value.Value); err != nil {
		return MetricValue{}, fmt.Errorf("line %d: value %q is not a number", node.Line, node.Content[2].Value)
	}
	return value, nil
}

// Timing is an optional evaluation duration in seconds. Resources that were
// skipped or never evaluated carry no timing, which is different from a
// resource that evaluated in zero seconds.
type Timing struct {
	Seconds float64
	Valid   bool
	// Raw is the original text when the report carried something that is not a number.
	Raw string
}

// Some returns a valid timing.
func Some(seconds float64) Timing {
	return Timing{Seconds: seconds, Valid: true}
}

// Malformed reports whether the report carried an unparseable timing.
func (t Timing) Malformed() bool {
	return !t.Valid && t.Raw != ""
}

// UnmarshalYAML never fails: a non-numeric value is kept in Raw.
func (t *Timing) UnmarshalYAML(node *yaml.Node) error {
	var seconds float64
	if err := node.Decode(&seconds); err != nil {
		*t = Timing{Raw: node.Value}
		if t.Raw == "" {
			t.Raw = "<" + node.ShortTag() + ">"
		}
		return nil
	}
	*t = Some(seconds)
	return nil
}

// ResourceStatus is the outcome of one managed resource.
type ResourceStatus struct {
	ResourceType   string  `yaml:"resource_type"`
	Title          string  `yaml:"title"`
	EvaluationTime Timing  `yaml:"evaluation_time"`
	Failed         bool    `yaml:"failed"`
	Skipped        bool    `yaml:"skipped"`
	Changed        bool    `yaml:"changed"`
	File           string  `yaml:"file"`
	Line           int     `yaml:"line"`
	Events         []Event `yaml:"events"`

	// Invalid is set when the status could not be decoded; only the
	// identifier is known for such resources.
	Invalid string `yaml:"-"`
}

// Event is a change or failure recorded against a resource.
type Event struct {
	Message  string `yaml:"message"`
	Status   string `yaml:"status"`
	Property string `yaml:"property"`
	Name     string `yaml:"name"`
}

// NamedStatus pairs a resource identifier such as "File[/etc/motd]" with its status.
type NamedStatus struct {
	ID     string
	Status ResourceStatus
}

// ResourceStatuses keeps resource statuses in report order.
type ResourceStatuses []NamedStatus

// UnmarshalYAML decodes the resource_statuses mapping preserving key order.
func (s *ResourceStatuses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: resource_statuses must be a mapping", node.Line)
	}

	statuses := make(ResourceStatuses, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		var status ResourceStatus
		if err := node.Content[i+1].Decode(&status); err != nil {
			status = ResourceStatus{Invalid: err.Error()}
		}
		statuses = append(statuses, NamedStatus{ID: id, Status: status})
	}

	*s = statuses
	return nil
}

// Lookup returns the status for a resource identifier.
func (s ResourceStatuses) Lookup(id string) (ResourceStatus, bool) {
	for _, named := range s {
		if named.ID == id {
			return named.Status, true
		}
	}
	return ResourceStatus{}, false
}
