package output

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatWide Format = "wide"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatText, FormatWide, FormatJSON, FormatYAML}

// ParseFormat accepts one of Formats. An empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(s)
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown output format: %s (expected one of %v)", s, Formats)
	}
	return f, nil
}

func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	case FormatText, FormatWide:
		return fmt.Errorf("%s format requires a specific formatter", format)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
