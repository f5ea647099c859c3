package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}

	// cmdOut receives command output; logs go to stderr.
	cmdOut io.Writer = os.Stdout
)

func validateOutput(output string) error {
	if len(output) > 0 && !funk.ContainsString(legalOutputTypes, output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// printStructured writes v as indented json or as yaml.
func printStructured(w io.Writer, v any, output string) error {
	switch output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling output: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", marshalled)
		return err
	case yamlFormat:
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling output: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s", marshalled)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
