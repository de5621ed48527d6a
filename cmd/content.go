package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/logging"
)

// contentService opens the store for the LLM event log and builds the
// content service. The returned close func releases the store.
func contentService(cmd *cobra.Command) (*content.Service, func(), error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	ctx := logging.IntoContext(cmd.Context(), logger)
	provider, err := newProvider(ctx, cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return newContentService(cfg, provider, logger), func() { st.Close() }, nil
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize study material (reads stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(cmd, firstArg(args))
		if err != nil {
			return err
		}
		svc, done, err := contentService(cmd)
		if err != nil {
			return err
		}
		defer done()

		sum, err := svc.Summarize(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("summarize: %s", userError(err))
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSONOut(cmd.OutOrStdout(), sum)
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics [file]",
	Short: "List the key topics of study material",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(cmd, firstArg(args))
		if err != nil {
			return err
		}
		svc, done, err := contentService(cmd)
		if err != nil {
			return err
		}
		defer done()

		topics, err := svc.Topics(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("extract topics: %s", userError(err))
		}
		for i, t := range topics {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, t)
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from study material only",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		text, err := readSource(cmd, source)
		if err != nil {
			return err
		}
		svc, done, err := contentService(cmd)
		if err != nil {
			return err
		}
		defer done()

		answer, err := svc.Answer(cmd.Context(), text, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("answer: %s", userError(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func printSummary(w io.Writer, sum *content.Summary) {
	fmt.Fprintln(w, sum.Overview)
	if len(sum.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points")
		for _, p := range sum.KeyPoints {
			fmt.Fprintf(w, "  • %s\n", p)
		}
	}
	for _, s := range sum.Sections {
		fmt.Fprintf(w, "\n%s\n  %s\n", s.Title, s.Summary)
	}
	if len(sum.DataPoints) > 0 {
		fmt.Fprintln(w, "\nData")
		for _, d := range sum.DataPoints {
			fmt.Fprintf(w, "  %s: %s", d.Label, d.Value)
			if d.Unit != "" {
				fmt.Fprintf(w, " %s", d.Unit)
			}
			fmt.Fprintln(w)
		}
	}
}

func writeJSONOut(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	summarizeCmd.Flags().Bool("json", false, "Print the summary as JSON")
	askCmd.Flags().StringP("source", "s", "", "Study material file (default stdin)")
}
