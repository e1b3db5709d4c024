package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate <document-id>",
	Short: "Run a document translation in the foreground",
	Long: `Run the extract, translate and store pipeline for one document without
the job queue. The stored result is printed when it finishes.

Examples:
  legalctl translate 42`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid document id: %s", args[0])
	}

	res := application.Job.Run(context.Background(), uint(id))
	if !res.OK() {
		return fmt.Errorf("document %d: %s", res.DocumentID, res.Err.Message)
	}
	fmt.Printf("Document %d: %s\n\n%s\n", res.DocumentID, res.Status, res.Text)
	return nil
}
