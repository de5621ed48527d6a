package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/textsim"
)

// Config controls a Collector.
type Config struct {
	// BatchSize caps how many items one cycle adds.
	BatchSize int

	// MaxRetries is the number of extra attempts after the first when
	// the collaborator returns too few unique items.
	MaxRetries int

	// Threshold is the near-duplicate similarity cut-off.
	Threshold float64

	// Observer receives cycle metrics. Optional.
	Observer Observer

	// Rand drives the display shuffle. Nil uses the global source.
	Rand *rand.Rand
}

// DefaultConfig returns the standard collector settings.
func DefaultConfig() Config {
	return Config{
		BatchSize:  5,
		MaxRetries: 2,
		Threshold:  textsim.DefaultThreshold,
	}
}

// Cycle outcomes reported to Observer.
const (
	OutcomeAdded      = "added"
	OutcomeQuotaMet   = "quota_met"
	OutcomeNoNewItems = "no_new_items"
	OutcomeBackend    = "backend_error"
	OutcomeCanceled   = "canceled"
)

// Rejection reasons reported to Observer.
const (
	RejectMalformed = "malformed"
	RejectWrongKind = "wrong_kind"
	RejectDuplicate = "duplicate"
)

// Observer receives collection metrics.
type Observer interface {
	Attempt(kind Kind)
	Rejected(kind Kind, reason string, n int)
	Cycle(kind Kind, outcome string)
}

type nopObserver struct{}

func (nopObserver) Attempt(Kind) {}
func (nopObserver) Rejected(Kind, string, int) {}
func (nopObserver) Cycle(Kind, string) {}

// CollectRequest describes one collection cycle. The session owns Seen and
// Topics and must not run two cycles against them at once.
type CollectRequest struct {
	Kind    Kind
	Quota   int
	Context string

	// Accepted holds the items already in the session's quiz. Items of
	// other kinds are ignored.
	Accepted []Item

	Seen   KeyRegistry
	Topics *TopicQueue
}

// Collector runs collection cycles against a generation collaborator.
type Collector struct {
	gen    Generator
	cfg    Config
	logger zerolog.Logger
}

// NewCollector creates a Collector. Zero config fields take their
// DefaultConfig values.
func NewCollector(gen Generator, cfg Config, logger zerolog.Logger) *Collector {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Collector{
		gen:    gen,
		cfg:    cfg,
		logger: logger.With().Str("component", "collector").Logger(),
	}
}

// Want returns how many items a cycle asks for: the batch size capped by
// what is left of the quota.
func (c *Collector) Want(quota, have int) int {
	return min(c.cfg.BatchSize, quota-have)
}

// Collect runs one collection cycle. It returns up to min(BatchSize,
// Quota - accepted) new items of req.Kind, shuffled for display, and
// registers their keys in req.Seen. It returns an empty result when the
// quota is already met, ErrNoNewItems when no attempt produced a unique
// item, and a *BackendError as soon as the collaborator fails. On error
// req.Seen is left untouched and the dequeued topics go back to the front
// of req.Topics.
func (c *Collector) Collect(ctx context.Context, req CollectRequest) ([]Item, error) {
	accepted := OfKind(req.Accepted, req.Kind)
	want := c.Want(req.Quota, len(accepted))
	log := c.logger.With().Str("kind", string(req.Kind)).Int("want", want).Logger()

	if want <= 0 {
		c.cfg.Observer.Cycle(req.Kind, OutcomeQuotaMet)
		log.Debug().Int("quota", req.Quota).Msg("quota already met")
		return nil, nil
	}

	seen := NewKeySet()
	if req.Seen != nil {
		snap, err := req.Seen.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("load seen keys: %w", err)
		}
		seen = snap
	}

	topics := req.Topics.Dequeue(want)
	done := false
	defer func() {
		if !done {
			req.Topics.Requeue(topics...)
		}
	}()

	var collected []Item
	attempts := 1 + c.cfg.MaxRetries
	for attempt := 1; attempt <= attempts && len(collected) < want; attempt++ {
		if err := ctx.Err(); err != nil {
			c.cfg.Observer.Cycle(req.Kind, OutcomeCanceled)
			return nil, err
		}

		c.cfg.Observer.Attempt(req.Kind)
		records, err := c.gen.Generate(ctx, GenerateRequest{
			Kind:    req.Kind,
			Count:   want - len(collected),
			Context: req.Context,
			Exclude: append(Texts(accepted), Texts(collected)...),
			Topics:  topics,
		})
		if err != nil {
			c.cfg.Observer.Cycle(req.Kind, OutcomeBackend)
			log.Warn().Err(err).Int("attempt", attempt).Msg("generation failed")
			return nil, newBackendError(err)
		}

		items, malformed := CanonicalizeAll(records)
		ofKind := OfKind(items, req.Kind)
		fresh := Deduplicate(ofKind, seen, accepted, collected, c.cfg.Threshold)
		collected = append(collected, fresh...)

		c.cfg.Observer.Rejected(req.Kind, RejectMalformed, malformed)
		c.cfg.Observer.Rejected(req.Kind, RejectWrongKind, len(items)-len(ofKind))
		c.cfg.Observer.Rejected(req.Kind, RejectDuplicate, len(ofKind)-len(fresh))

		log.Debug().
			Int("attempt", attempt).
			Int("received", len(records)).
			Int("malformed", malformed).
			Int("fresh", len(fresh)).
			Int("collected", len(collected)).
			Msg("collection attempt")
	}

	if len(collected) == 0 {
		c.cfg.Observer.Cycle(req.Kind, OutcomeNoNewItems)
		log.Info().Int("attempts", attempts).Msg("no new items")
		return nil, ErrNoNewItems
	}
	if len(collected) > want {
		collected = collected[:want]
	}

	out := Shuffle(collected, c.cfg.Rand)
	if req.Seen != nil {
		if err := req.Seen.Register(ctx, KeysOf(out)...); err != nil {
			return nil, fmt.Errorf("register seen keys: %w", err)
		}
	}

	done = true
	c.cfg.Observer.Cycle(req.Kind, OutcomeAdded)
	log.Info().Int("added", len(out)).Msg("collection cycle complete")
	return out, nil
}
