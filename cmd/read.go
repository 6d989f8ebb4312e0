// File: cmd/read.go
package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/earshot-dev/earshot/internal/a11y"
	"github.com/earshot-dev/earshot/internal/dom"
	"github.com/earshot-dev/earshot/internal/observability"
)

// readEntry is one traversal stop in the command's output.
type readEntry struct {
	Phrase   string `json:"phrase"`
	ItemText string `json:"itemText,omitempty"`
	Role     string `json:"role,omitempty"`
}

// newReadCmd creates and configures the `read` command: it renders an HTML
// file into the complete spoken traversal, the way the reading cursor would
// announce it stop by stop.
func newReadCmd() *cobra.Command {
	var (
		containerID string
		asJSON      bool
	)

	readCmd := &cobra.Command{
		Use:   "read [file.html]",
		Short: "Prints the spoken traversal of an HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open document: %w", err)
			}
			defer f.Close()

			doc, err := dom.Parse(f, logger)
			if err != nil {
				return err
			}

			container := doc.Body()
			if containerID != "" {
				container = doc.GetElementByID(containerID)
			}
			if container == nil {
				return fmt.Errorf("no container element found (id=%q)", containerID)
			}

			tree := a11y.Flatten(a11y.NewSynthesizer(doc, logger).Synthesize(container))
			logger.Info("document traversed",
				zap.String("file", args[0]),
				zap.Int("stops", len(tree)))

			entries := make([]readEntry, 0, len(tree))
			for _, stop := range tree {
				entry := readEntry{Phrase: a11y.Phrase(stop), ItemText: a11y.ItemText(stop)}
				if !stop.Boundary {
					entry.Role = stop.Role
				}
				entries = append(entries, entry)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for _, entry := range entries {
				fmt.Fprintln(out, entry.Phrase)
			}
			return nil
		},
	}

	readCmd.Flags().StringVar(&containerID, "container", "", "id of the element to read (default is the document body)")
	readCmd.Flags().BoolVar(&asJSON, "json", false, "emit the traversal as JSON")
	return readCmd
}
