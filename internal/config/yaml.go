package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportYAML writes every setting of c as a flat YAML mapping in key order.
func ExportYAML(w io.Writer, c Config) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.get(&c)},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads a mapping produced by ExportYAML (or written by hand) and
// returns it in key/value form. Sequences are accepted for list settings.
// Every key and value is checked; the first problem is returned.
func ImportYAML(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	out := make(map[string]string, len(raw))
	for key, v := range raw {
		value := scalarString(v)
		if err := Check(key, value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
