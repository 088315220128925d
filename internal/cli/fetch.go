package cmd

import (
	"fmt"

	"github.com/rohmanhakim/talk-parser/internal/scheduler"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve talk pages by title and segment them.",
	Long: `fetch retrieves the rendered HTML of every --title from the content
backend (--base-url), spacing requests to the same host, and writes the
reconstructed topics of each page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(titles) == 0 && cfgFile == "" {
			return fmt.Errorf("--title is required. Please provide at least one page title")
		}

		cfg, err := InitConfigWithError(titles)
		if err != nil {
			return err
		}

		recorder := newRecorder(cmd.ErrOrStderr())
		s := scheduler.NewScheduler(cmd.Context(), cfg, &recorder, cmd.OutOrStdout())
		execution, err := s.ExecuteFetch(cfg)
		printSummary(cmd, execution)
		return err
	},
}

func init() {
	fetchCmd.Flags().StringArrayVar(&titles, "title", []string{}, "page title to fetch (can be repeated)")
}

// SetTitlesForTest sets the --title flag value.
func SetTitlesForTest(pageTitles []string) {
	titles = pageTitles
}
