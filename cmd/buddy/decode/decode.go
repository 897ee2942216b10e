// Package decodecmder provides the decode command that splits a raw model
// reply into its display parts.
package decodecmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/globalbuddy/buddy/pkg/reply"
)

const decodeLongDesc string = `Decode a raw model reply.

Reads a reply from the given file, or from stdin when no file is given,
and prints the decoded parts as JSON: the main reply, the translation of
the user's message, the translation of the reply and the suggested
alternatives.

Examples:
  buddy decode reply.txt
  pbpaste | buddy decode`

const decodeShortDesc string = "Decode a raw model reply"

func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: decodeShortDesc,
		Long:  decodeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening reply: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runDecode(in, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runDecode(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading reply: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reply.Decode(string(raw)))
}
