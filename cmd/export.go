package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/export"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizfile"
)

var exportCmd = &cobra.Command{
	Use:   "export [quiz-id]",
	Short: "Render a saved quiz (or a quiz file with --file) as PDF",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		out, _ := cmd.Flags().GetString("out")
		opts := export.Options{FontPath: cfg.PDFFont}
		opts.ShowAnswers, _ = cmd.Flags().GetBool("answers")
		opts.ShuffleChoices, _ = cmd.Flags().GetBool("shuffle")
		if font, _ := cmd.Flags().GetString("font"); font != "" {
			opts.FontPath = font
		}

		var (
			title string
			items []quiz.Item
		)
		switch {
		case file != "" && len(args) == 0:
			doc, _, err := quizfile.Load(file)
			if err != nil {
				return err
			}
			title, items = doc.Title, doc.Questions
		case file == "" && len(args) == 1:
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			qz, err := st.Bank().GetQuiz(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			title, items = qz.Title, qz.Items()
		default:
			return fmt.Errorf("give either a quiz ID or --file")
		}
		if out == "" {
			out = "quiz.pdf"
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := export.Render(f, title, items, opts); err != nil {
			f.Close()
			return fmt.Errorf("render PDF: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s.\n", len(items), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output PDF path (default quiz.pdf)")
	exportCmd.Flags().StringP("file", "f", "", "Render a JSON or YAML quiz file instead of a saved quiz")
	exportCmd.Flags().Bool("answers", false, "Print the answer and explanation under each question")
	exportCmd.Flags().Bool("shuffle", false, "Shuffle the choices of multiple-choice questions")
	exportCmd.Flags().String("font", "", "TTF font with Thai glyphs (overrides EDUGEN_PDF_FONT)")
}
