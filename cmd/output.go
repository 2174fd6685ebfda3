package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat struct {
	json bool
	yaml bool
}

func (f *outputFormat) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&f.yaml, "yaml", false, "Render YAML output")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func (f outputFormat) structured() bool {
	return f.json || f.yaml
}

// write encodes v when a structured format was requested and reports whether
// it did.
func (f outputFormat) write(out io.Writer, v any) (bool, error) {
	switch {
	case f.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case f.yaml:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func writeRendered(out io.Writer, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}
