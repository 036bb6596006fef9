package models

// FailedResource lists the event messages of a resource that failed.
type FailedResource struct {
	Resource string   `json:"resource"`
	Messages []string `json:"messages"`
}

// RunRecord is the condensed view of one report used by the history command.
type RunRecord struct {
	Source               string           `json:"source"`
	StartTime            string           `json:"start_time"`
	Status               string           `json:"status"`
	ConfigurationVersion string           `json:"configuration_version"`
	TotalTime            *float64         `json:"total_time,omitempty"`
	Failed               []FailedResource `json:"failed,omitempty"`
}

// RunGroup is every run that applied one configuration version.
type RunGroup struct {
	Version    string      `json:"version"`
	Runs       []RunRecord `json:"runs"`
	Expected   bool        `json:"expected,omitempty"`
	Missing    bool        `json:"missing,omitempty"`
	Unexpected bool        `json:"unexpected,omitempty"`
}

// History groups runs by configuration version.
type History struct {
	Groups       []RunGroup    `json:"groups"`
	LoadFailures []LoadFailure `json:"load_failures,omitempty"`
}
