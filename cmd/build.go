package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/config"
	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/logging"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizfile"
	"github.com/edugen/edugen/internal/session"
	"github.com/edugen/edugen/internal/store"
)

const buildHelp = `Commands:
  mcq [quota]     collect a batch of multiple-choice questions
  tf [quota]      collect a batch of true-false questions
  topics [a, b]   extract topics from the source, or set them
  list            show the questions collected so far
  drop N          remove question N
  reset           clear questions, topics and history
  save TITLE      save the questions to the bank as a quiz
  write FILE      write the questions to a .json or .yaml file
  quit            leave`

var buildCmd = &cobra.Command{
	Use:   "build <source-file>",
	Short: "Interactively build a quiz from study material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		text, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := logging.IntoContext(cmd.Context(), logger)

		b := &builder{
			out:   cmd.OutOrStdout(),
			bank:  st.Bank(),
			quota: cfg.Quiz.Quota,
		}
		provider, perr := newProvider(ctx, cfg, st, logger)
		if perr == nil {
			b.content = newContentService(cfg, provider, logger)
		}
		gen, err := newGenerator(cfg, provider, logger)
		if err != nil {
			return errors.Join(err, perr)
		}

		registries, closeRegistries, err := registriesFor(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeRegistries()

		collector := quiz.NewCollector(gen, cfg.Quiz.Collector(), logger)
		b.session = session.New(uuid.NewString(), collector, registries)
		if err := b.session.SetSource(ctx, text); err != nil {
			return err
		}

		fmt.Fprintf(b.out, "Loaded %d characters. Type help for commands.\n", len([]rune(text)))
		return b.loop(ctx, cmd.InOrStdin())
	},
}

// registriesFor returns Redis-backed seen-key registries when a Redis URL
// is configured and in-memory ones otherwise.
func registriesFor(ctx context.Context, cfg *config.App, logger zerolog.Logger) (session.RegistryFunc, func(), error) {
	if cfg.Redis.URL == "" {
		return session.MemoryRegistries, func() {}, nil
	}
	client, err := session.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("seen keys stored in redis")
	return session.RedisRegistries(client, cfg.Redis.SeenTTL), func() { client.Close() }, nil
}

type builder struct {
	out     io.Writer
	session *session.Session
	content *content.Service
	bank    *store.Bank
	quota   int
}

func (b *builder) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if name == "quit" || name == "exit" {
			return nil
		}
		if err := b.run(ctx, name, rest); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(b.out, "error: %s\n", userError(err))
		}
	}
}

func (b *builder) run(ctx context.Context, name, rest string) error {
	switch name {
	case "help", "?":
		fmt.Fprintln(b.out, buildHelp)
	case "mcq", "tf":
		return b.collect(ctx, name, rest)
	case "topics":
		return b.topics(ctx, rest)
	case "list":
		b.list()
	case "drop":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("usage: drop N")
		}
		removed, err := b.session.Remove(n - 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(b.out, "Dropped: %s\n", removed.Text)
	case "reset":
		if err := b.session.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(b.out, "Cleared questions, topics and history.")
	case "save":
		if rest == "" {
			return fmt.Errorf("usage: save TITLE")
		}
		qz, err := b.bank.CreateQuiz(ctx, rest, b.session.Items())
		if err != nil {
			return err
		}
		fmt.Fprintf(b.out, "Saved quiz %d %q with %d questions.\n", qz.ID, qz.Title, len(qz.Questions))
	case "write":
		if rest == "" {
			return fmt.Errorf("usage: write FILE")
		}
		if err := quizfile.Save(rest, &quizfile.Document{Questions: b.session.Items()}); err != nil {
			return err
		}
		fmt.Fprintf(b.out, "Wrote %s.\n", rest)
	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
	return nil
}

func (b *builder) collect(ctx context.Context, name, rest string) error {
	kind, _ := quiz.ParseKind(name)
	quota := b.quota
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: %s [quota]", name)
		}
		quota = n
	}

	before := len(b.session.Items())
	added, err := b.session.Collect(ctx, kind, quota)
	switch {
	case errors.Is(err, quiz.ErrNoNewItems):
		fmt.Fprintln(b.out, "No new questions this time. Try again or set different topics.")
		return nil
	case err != nil:
		return err
	case len(added) == 0:
		fmt.Fprintf(b.out, "Already have %d %s questions.\n", b.session.Counts()[kind], kind)
		return nil
	}

	for i, it := range added {
		printItem(b.out, before+i+1, it)
	}
	fmt.Fprintf(b.out, "%d %s questions (quota %d).\n", b.session.Counts()[kind], kind, quota)
	return nil
}

func (b *builder) topics(ctx context.Context, rest string) error {
	var topics []string
	if rest != "" {
		for _, t := range strings.Split(rest, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	} else {
		if b.content == nil {
			return fmt.Errorf("topic extraction needs an LLM provider; list topics separated by commas instead")
		}
		var err error
		if topics, err = b.content.Topics(ctx, b.session.Source()); err != nil {
			return err
		}
	}
	b.session.SetTopics(topics)
	fmt.Fprintf(b.out, "Topics: %s\n", strings.Join(topics, ", "))
	return nil
}

func (b *builder) list() {
	items := b.session.Items()
	if len(items) == 0 {
		fmt.Fprintln(b.out, "No questions yet.")
		return
	}
	for i, it := range items {
		printItem(b.out, i+1, it)
	}
}

// printItem writes one numbered question with its choices and answer.
func printItem(w io.Writer, n int, it quiz.Item) {
	fmt.Fprintf(w, "%d) [%s] %s\n", n, it.Kind, it.Text)
	for i, c := range it.Choices {
		fmt.Fprintf(w, "     %s. %s\n", quiz.Position(i).Marker(), c)
	}
	fmt.Fprintf(w, "     answer: %s\n", it.AnswerLabel())
	if it.Explanation != "" {
		fmt.Fprintf(w, "     %s\n", it.Explanation)
	}
}
