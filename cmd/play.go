package cmd

import (
	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/play"
	"github.com/edugen/edugen/internal/quizfile"
)

var playCmd = &cobra.Command{
	Use:   "play [quiz-id]",
	Short: "Take a quiz in the terminal",
	Long: "Take a saved quiz in the terminal. Without an ID a picker lists the saved quizzes;\n" +
		"with --file a JSON or YAML quiz is played without recording the score.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := play.Options{}
		opts.Player, _ = cmd.Flags().GetString("player")
		opts.Shuffle, _ = cmd.Flags().GetBool("shuffle")

		if file, _ := cmd.Flags().GetString("file"); file != "" {
			doc, _, err := quizfile.Load(file)
			if err != nil {
				return err
			}
			opts.Title, opts.Items = doc.Title, doc.Questions
			if opts.Title == "" {
				opts.Title = file
			}
			return play.Run(cmd.Context(), opts)
		}

		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			opts.QuizID = ids[0]
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Bank = st.Bank()
		return play.Run(cmd.Context(), opts)
	},
}

func init() {
	playCmd.Flags().StringP("file", "f", "", "Play a JSON or YAML quiz file")
	playCmd.Flags().StringP("player", "p", "", "Player name (skips the name prompt)")
	playCmd.Flags().Bool("shuffle", false, "Shuffle questions and choices")
}
