package cmd

import (
	"fmt"
	"os"

	"github.com/rohmanhakim/talk-parser/internal/scheduler"
	"github.com/rohmanhakim/talk-parser/pkg/fileutil"
	"github.com/spf13/cobra"
)

var inputFile string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Segment a talk page stored in a local HTML file.",
	Long: `parse reads rendered talk page HTML from --file and writes the
reconstructed topics. The page title defaults to the file name without
its extension; pass --title to set it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" {
			return fmt.Errorf("--file is required")
		}
		htmlByte, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", inputFile, err)
		}

		title := fileutil.BaseNameWithoutExtension(inputFile)
		if len(titles) > 0 {
			title = titles[0]
		}

		cfg, err := InitConfigWithError(nil)
		if err != nil {
			return err
		}

		recorder := newRecorder(cmd.ErrOrStderr())
		s := scheduler.NewScheduler(cmd.Context(), cfg, &recorder, cmd.OutOrStdout())
		execution, err := s.ExecuteParse(cfg, title, htmlByte)
		if err != nil {
			return err
		}
		printSummary(cmd, execution)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&inputFile, "file", "", "path of the HTML file to parse")
	parseCmd.Flags().StringArrayVar(&titles, "title", []string{}, "page title used for the artifact name")
}

// printSummary reports written artifacts on stderr so stdout stays reserved for artifacts.
func printSummary(cmd *cobra.Command, execution scheduler.RunExecution) {
	for _, page := range execution.Pages {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d topics, %d replies -> %s\n",
			page.Title,
			len(page.Result.Topics),
			page.Result.ReplyCount(),
			page.WriteResult.Path(),
		)
	}
	if execution.TotalErrors > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d pages failed\n", execution.TotalErrors)
	}
}

// SetInputFileForTest sets the --file flag value.
func SetInputFileForTest(path string) {
	inputFile = path
}
