package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizfile"
	"github.com/edugen/edugen/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank",
}

// withBank opens the store and runs fn with its bank.
func withBank(cmd *cobra.Command, fn func(bank *store.Bank) error) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.Bank())
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid ID %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var bankQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List banked questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		f := store.QuestionFilter{}
		f.Topic, _ = cmd.Flags().GetString("topic")
		f.Search, _ = cmd.Flags().GetString("search")
		f.Limit, _ = cmd.Flags().GetInt("limit")
		if kindFlag != "" {
			kind, ok := quiz.ParseKind(kindFlag)
			if !ok {
				return fmt.Errorf("unknown kind %q", kindFlag)
			}
			f.Kind = kind
		}

		return withBank(cmd, func(bank *store.Bank) error {
			questions, err := bank.ListQuestions(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No questions found.")
				return nil
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-5s  %-4s  %-16s  %s\n", "ID", "Kind", "Topic", "Question")
			fmt.Fprintln(w, strings.Repeat("─", 80))
			for _, q := range questions {
				fmt.Fprintf(w, "%-5d  %-4s  %-16s  %s\n", q.ID, string(q.Item.Kind), truncate(q.Item.Topic, 16), truncate(q.Item.Text, 50))
			}
			return nil
		})
	},
}

var bankQuizzesCmd = &cobra.Command{
	Use:   "quizzes",
	Short: "List saved quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(bank *store.Bank) error {
			quizzes, err := bank.ListQuizzes(cmd.Context())
			if err != nil {
				return err
			}
			if len(quizzes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quizzes saved yet.")
				return nil
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-5s  %-40s  %9s  %s\n", "ID", "Title", "Questions", "Updated")
			fmt.Fprintln(w, strings.Repeat("─", 80))
			for _, qz := range quizzes {
				fmt.Fprintf(w, "%-5d  %-40s  %9d  %s\n",
					qz.ID, truncate(qz.Title, 40), qz.QuestionCount, qz.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Show a quiz with its questions and attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		return withBank(cmd, func(bank *store.Bank) error {
			qz, err := bank.GetQuiz(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (quiz %d, %d questions)\n\n", qz.Title, qz.ID, len(qz.Questions))
			for i, q := range qz.Questions {
				printItem(w, i+1, q.Item)
			}

			attempts, err := bank.ListAttempts(cmd.Context(), qz.ID)
			if err != nil {
				return err
			}
			if len(attempts) > 0 {
				fmt.Fprintln(w, "\nBest attempts")
				for _, a := range attempts {
					fmt.Fprintf(w, "  %-20s %d/%d  %s\n", truncate(a.Player, 20), a.Score, a.Total, a.CreatedAt.Local().Format("2006-01-02 15:04"))
				}
			}
			return nil
		})
	},
}

var bankAddCmd = &cobra.Command{
	Use:   "add-from-file <file>",
	Short: "Add questions from a JSON or YAML file, optionally as a new quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, rejected, err := quizfile.Load(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = doc.Title
		}

		return withBank(cmd, func(bank *store.Bank) error {
			w := cmd.OutOrStdout()
			if rejected > 0 {
				fmt.Fprintf(w, "Skipped %d malformed entries.\n", rejected)
			}
			if title != "" {
				qz, err := bank.CreateQuiz(cmd.Context(), title, doc.Questions)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Created quiz %d %q with %d questions.\n", qz.ID, qz.Title, len(qz.Questions))
				return nil
			}
			if len(doc.Questions) == 0 {
				return fmt.Errorf("%s has no usable questions", args[0])
			}
			ids, err := bank.AddQuestions(cmd.Context(), doc.Questions...)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Added %d questions.\n", len(ids))
			return nil
		})
	},
}

var bankMergeCmd = &cobra.Command{
	Use:   "merge <quiz-id> <quiz-id>...",
	Short: "Merge quizzes into a new one, dropping repeated questions",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		return withBank(cmd, func(bank *store.Bank) error {
			qz, err := bank.MergeQuizzes(cmd.Context(), title, ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created quiz %d %q with %d questions.\n", qz.ID, qz.Title, len(qz.Questions))
			return nil
		})
	},
}

var bankDeleteCmd = &cobra.Command{
	Use:   "delete <quiz-id>...",
	Short: "Delete quizzes (or questions with --questions)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		questions, _ := cmd.Flags().GetBool("questions")
		return withBank(cmd, func(bank *store.Bank) error {
			for _, id := range ids {
				if questions {
					err = bank.DeleteQuestion(cmd.Context(), id)
				} else {
					err = bank.DeleteQuiz(cmd.Context(), id)
				}
				if err != nil {
					return fmt.Errorf("delete %d: %w", id, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d.\n", len(ids))
			return nil
		})
	},
}

var bankExportCmd = &cobra.Command{
	Use:   "export <quiz-id> <file>",
	Short: "Write a quiz to a JSON or YAML file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[:1])
		if err != nil {
			return err
		}
		return withBank(cmd, func(bank *store.Bank) error {
			qz, err := bank.GetQuiz(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			if err := quizfile.Save(args[1], &quizfile.Document{Title: qz.Title, Questions: qz.Items()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s.\n", len(qz.Questions), args[1])
			return nil
		})
	},
}

func init() {
	bankQuestionsCmd.Flags().String("kind", "", "Filter by kind (mcq or tf)")
	bankQuestionsCmd.Flags().String("topic", "", "Filter by topic")
	bankQuestionsCmd.Flags().StringP("search", "q", "", "Filter by question text")
	bankQuestionsCmd.Flags().IntP("limit", "n", 50, "Number of questions to show")
	bankAddCmd.Flags().StringP("title", "t", "", "Also create a quiz with this title")
	bankMergeCmd.Flags().StringP("title", "t", "", "Title of the merged quiz")
	_ = bankMergeCmd.MarkFlagRequired("title")
	bankDeleteCmd.Flags().Bool("questions", false, "Delete banked questions instead of quizzes")

	bankCmd.AddCommand(bankQuestionsCmd)
	bankCmd.AddCommand(bankQuizzesCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankAddCmd)
	bankCmd.AddCommand(bankMergeCmd)
	bankCmd.AddCommand(bankDeleteCmd)
	bankCmd.AddCommand(bankExportCmd)
}
