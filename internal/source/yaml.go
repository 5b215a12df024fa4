package source

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type listFile struct {
	Links []string `yaml:"links"`
}

// parseYAML accepts either a plain sequence of URLs or a mapping with a
// "links" sequence.
func parseYAML(r io.Reader) ([]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	var raw []string
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("error decoding URL list: %v", err)
		}
	case yaml.MappingNode:
		var lf listFile
		if err := root.Decode(&lf); err != nil {
			return nil, fmt.Errorf("error decoding links: %v", err)
		}
		raw = lf.Links
	default:
		return nil, fmt.Errorf("expected a list of URLs or a links mapping")
	}

	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
