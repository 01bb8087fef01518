package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spoonlib/spoon/parser"
)

func writeCompiled(out io.Writer, results []*parser.Compiled, format string, pretty bool) error {
	switch format {
	case "json":
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(results, "", "  ")
		} else {
			data, err = json.Marshal(results)
		}
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		_, err = out.Write(data)
		return err
	default:
		for _, compiled := range results {
			for _, expr := range compiled.Expressions {
				if _, err := fmt.Fprintf(out, "%s:%d:%d\t%s\t%s\n", compiled.Filename, expr.Line, expr.Column, expr.Source, expr.Code); err != nil {
					return err
				}
			}
		}

		return nil
	}
}

func writeValue(out io.Writer, value any) error {
	switch v := value.(type) {
	case nil:
		_, err := fmt.Fprintln(out, "null")
		return err
	case string, bool, int, int64, uint64, float64:
		_, err := fmt.Fprintln(out, v)
		return err
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	_, err = out.Write(data)

	return err
}
