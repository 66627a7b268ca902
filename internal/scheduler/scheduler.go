package scheduler

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/CaptainCallback/TwitchChatBot/internal/observe"
)

// DesiredSnapshot is the read side of the channels controller.
type DesiredSnapshot interface {
	Snapshot() (version uint64, channels []string, updatedAt time.Time, account string)
	Updates() <-chan struct{}
}

type Config struct {
	TokensPerSecond float64
	Burst           int
	Tick            time.Duration
}

// Twitch rate-limits JOINs; the defaults stay well under the
// 20-per-10-seconds ceiling for unverified bots.
func NewDefaultConfig() Config {
	return Config{
		TokensPerSecond: 0.5,
		Burst:           2,
		Tick:            1 * time.Second,
	}
}

// Run watches the desired-channel snapshot and emits JOIN/PART lines to the
// socket writer until membership matches it. The server echoes of those
// commands are not recognized by the parser, so membership is assumed on
// emit rather than confirmed; a dropped JOIN surfaces as a silent channel,
// not a reconcile loop.
func Run(ctx context.Context, desired DesiredSnapshot, writerCh chan<- string, cfg Config) error {
	_, _, _, acct := desired.Snapshot()
	lg := observe.C("scheduler").With(
		"account", acct,
		"tokens_per_sec", cfg.TokensPerSecond,
		"burst", cfg.Burst,
		"tick_ms", cfg.Tick.Milliseconds(),
	)

	s := &differ{
		desired:  desired,
		writerCh: writerCh,
		cfg:      cfg,
		joined:   make(map[string]struct{}),
		want:     make(map[string]struct{}),
		bucket:   newBucket(cfg.TokensPerSecond, cfg.Burst, realClock{}),
		lg:       lg,
		clk:      realClock{},
	}

	lg.Info("scheduler starting")
	err := s.loop(ctx)
	if err != nil && ctx.Err() == nil {
		lg.Error("scheduler stopped", "err", err)
	} else {
		lg.Info("scheduler stopped")
	}
	return err
}

type differ struct {
	desired      DesiredSnapshot
	writerCh     chan<- string
	cfg          Config
	joined       map[string]struct{}
	want         map[string]struct{}
	lastDesiredV uint64
	bucket       *bucket
	lg           *slog.Logger
	clk          Clock
}

func (s *differ) loop(ctx context.Context) error {
	tick := time.NewTicker(s.cfg.Tick)
	defer tick.Stop()

	updates := s.desired.Updates()

	for {
		select {
		case <-ctx.Done():
			s.lg.Info("scheduler stopping", "reason", "context_canceled")
			return ctx.Err()

		case <-tick.C:
			s.observeDesired()
			s.reconcile(s.clk.Now())

		case <-updates:
			s.lg.Debug("desired snapshot updated")
			s.observeDesired()
			s.reconcile(s.clk.Now())
		}
	}
}

func (s *differ) observeDesired() {
	v, chans, _, _ := s.desired.Snapshot()
	if v == s.lastDesiredV {
		return
	}
	s.lg.Info("desired set changed", "version", v, "channels", len(chans))
	clear(s.want)
	for _, ch := range chans {
		s.want[ch] = struct{}{}
	}
	s.lastDesiredV = v
}

// reconcile emits at most one command per token: PARTs for channels no
// longer wanted, then JOINs for wanted channels not yet joined.
func (s *differ) reconcile(now time.Time) {
	for ch := range s.joined {
		if _, ok := s.want[ch]; ok {
			continue
		}
		if s.trySend(now, "PART", ch) {
			delete(s.joined, ch)
		}
	}

	for ch := range s.want {
		if _, ok := s.joined[ch]; ok {
			continue
		}
		if s.trySend(now, "JOIN", ch) {
			s.joined[ch] = struct{}{}
		}
	}
}

func (s *differ) trySend(now time.Time, op, channel string) bool {
	if !s.bucket.take(now) {
		s.lg.Debug("rate-limited; skipping for now", "op", op, "channel", channel)
		return false
	}

	select {
	case s.writerCh <- fmt.Sprintf("%s %s\r\n", op, channel):
		s.lg.Info("command emitted", "op", op, "channel", channel)
		return true
	default:
		s.bucket.refund(now)
		s.lg.Warn("writer channel full; command not emitted", "op", op, "channel", channel)
		return false
	}
}

type bucket struct {
	rate       float64
	capacity   float64
	tokens     float64
	lastUpdate time.Time
	clk        Clock
}

func newBucket(tokensPerSec float64, burst int, clk Clock) *bucket {
	now := clk.Now()
	return &bucket{
		rate:       tokensPerSec,
		capacity:   float64(burst),
		tokens:     float64(burst),
		lastUpdate: now,
		clk:        clk,
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastUpdate).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.rate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastUpdate = now
	}
}

func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

func (b *bucket) refund(now time.Time) {
	b.refill(now)
	b.tokens++
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
}
