package collector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/puppetspectre/internal/models"
	"gopkg.in/yaml.v3"
)

// Decode parses a Puppet report in YAML or JSON form.
//
// Reports written by the agent carry Ruby object tags such as
// "!ruby/object:Puppet::Transaction::Report" and "!ruby/sym"; those are
// dropped so the plain mapping underneath decodes into the report model.
func Decode(data []byte) (*models.Report, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("report is empty")
	}

	doc := root.Content[0]
	stripLocalTags(doc)
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("report must be a mapping, got %s", doc.ShortTag())
	}

	report := &models.Report{}
	if err := doc.Decode(report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}

// stripLocalTags clears application specific tags ("!foo", not "!!str").
func stripLocalTags(node *yaml.Node) {
	if node == nil {
		return
	}
	if strings.HasPrefix(node.Tag, "!") && !strings.HasPrefix(node.Tag, "!!") {
		node.Tag = ""
	}
	for _, child := range node.Content {
		stripLocalTags(child)
	}
}
