package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Texter is implemented by every result type for FormatText.
type Texter interface {
	Text() string
}

// Formatter writes a result in one format.
type Formatter interface {
	FormatToWriter(w io.Writer, v Texter) error
}

// TextFormatter writes the result's Text.
type TextFormatter struct{}

// FormatToWriter writes v.Text() unchanged.
func (TextFormatter) FormatToWriter(w io.Writer, v Texter) error {
	_, err := io.WriteString(w, v.Text())
	return err
}

// YAMLFormatter formats results as YAML output.
type YAMLFormatter struct{}

// FormatToWriter writes YAML output to a writer.
func (YAMLFormatter) FormatToWriter(w io.Writer, v Texter) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(v)
}

// JSONFormatter formats results as JSON output.
type JSONFormatter struct{}

// FormatToWriter writes indented JSON output to a writer.
func (JSONFormatter) FormatToWriter(w io.Writer, v Texter) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// GetFormatter returns the formatter for f.
func GetFormatter(f Format) (Formatter, error) {
	switch f {
	case FormatText:
		return TextFormatter{}, nil
	case FormatYAML:
		return YAMLFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

// Write renders v to w in format f.
func Write(w io.Writer, f Format, v Texter) error {
	formatter, err := GetFormatter(f)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(w, v)
}

// JSON returns v as indented JSON without a trailing newline.
func JSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
