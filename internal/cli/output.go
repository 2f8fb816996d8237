package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// writeOut renders command output as text lines or JSON depending on
// --format. v is either a printable value or a []row for text mode.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(app.Format, "json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		if app.PrettyJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	}
	switch x := v.(type) {
	case []string:
		for _, line := range x {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), x)
		return nil
	default:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
