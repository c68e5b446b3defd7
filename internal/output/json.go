package output

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode renders v as indented JSON or YAML.
func Encode(format Format, v any) (string, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
