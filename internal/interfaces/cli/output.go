package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// usageError is reported verbatim instead of being labelled as a processing error.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exactArgs rejects any other argument count with a usage line.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("Usage: %s", usage)
		}
		return nil
	}
}

func minimumArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErrorf("Usage: %s", usage)
		}
		return nil
	}
}

// PrintResult writes data to the command's stdout in the selected format.
func PrintResult(cmd *cobra.Command, data any) error {
	format := formatJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	return writeResult(cmd.OutOrStdout(), format, data)
}

func writeResult(w io.Writer, format string, data any) error {
	if format == formatYAML {
		return writeYAML(w, data)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeYAML goes through JSON first so YAML keys match the JSON field tags.
func writeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// PrintError writes {"error": label} to w.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := entities.Label(err)
	var ue *usageError
	if errors.As(err, &ue) {
		msg = ue.msg
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(map[string]string{"error": msg})
}
