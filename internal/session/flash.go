package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/capitainerie/port-russell/internal/observability"
	"github.com/redis/go-redis/v9"
)

// FlashStore carries one-shot outcome messages across a redirect boundary.
// Values live in a redis hash per session; each slot self-clears after the
// configured delay unless it is overwritten first.
//
// Clearing is guarded by a per (session, slot) generation counter so a timer
// scheduled for an old write can never wipe a newer value: last writer wins
// for both the value and the clear schedule.
type FlashStore struct {
	rdb        *redis.Client
	flashTTL   time.Duration
	sessionTTL time.Duration
	log        *slog.Logger
	prom       *observability.Prom

	mu     sync.Mutex
	gens   map[string]uint64
	timers map[string]*time.Timer
}

func NewFlashStore(rdb *redis.Client, flashTTL, sessionTTL time.Duration, log *slog.Logger, prom *observability.Prom) *FlashStore {
	if flashTTL <= 0 {
		flashTTL = 10 * time.Second
	}

	// The session must outlive its flash messages. An early deployment shipped
	// a session max-age equal to the flash delay, which dropped banners before
	// the next page load.
	if sessionTTL <= flashTTL {
		sessionTTL = 24 * time.Hour
	}

	return &FlashStore{
		rdb:        rdb,
		flashTTL:   flashTTL,
		sessionTTL: sessionTTL,
		log:        log,
		prom:       prom,
		gens:       make(map[string]uint64),
		timers:     make(map[string]*time.Timer),
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func slotKey(sessionID, slot string) string {
	return sessionID + "\x00" + slot
}

// Set overwrites the slot's current value and reschedules its clear timer.
func (s *FlashStore) Set(ctx context.Context, sessionID, slot, message string) error {
	if sessionID == "" || slot == "" {
		return errors.New("session id and slot are required")
	}

	key := sessionKey(sessionID)

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, slot, message)
	pipe.Expire(ctx, key, s.sessionTTL)

	_, err := pipe.Exec(ctx)

	if err != nil {
		return err
	}

	if s.prom != nil {
		s.prom.FlashSets.WithLabelValues(slot).Inc()
	}

	s.schedule(sessionID, slot)

	return nil
}

// Read returns the slot's current value without side effects. Clearing is
// purely time-driven, never read-driven.
func (s *FlashStore) Read(ctx context.Context, sessionID, slot string) (string, bool, error) {
	val, err := s.rdb.HGet(ctx, sessionKey(sessionID), slot).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, err
	}

	return val, true, nil
}

// ReadAll snapshots every populated slot for page rendering.
func (s *FlashStore) ReadAll(ctx context.Context, sessionID string) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, sessionKey(sessionID)).Result()
}

// Clear removes the slot immediately and invalidates any pending timer.
func (s *FlashStore) Clear(ctx context.Context, sessionID, slot string) error {
	s.invalidate(sessionID, slot)

	err := s.rdb.HDel(ctx, sessionKey(sessionID), slot).Err()

	if err != nil {
		return err
	}

	if s.prom != nil {
		s.prom.FlashClears.WithLabelValues("manual").Inc()
	}

	return nil
}

// Destroy drops the whole session hash (logout).
func (s *FlashStore) Destroy(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

// Shutdown stops every pending timer. Messages left in redis simply expire
// with their session key.
func (s *FlashStore) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, t := range s.timers {
		t.Stop()
		delete(s.timers, k)

		if s.prom != nil {
			s.prom.FlashPending.Dec()
		}
	}
}

// schedule bumps the slot generation and arms a fresh clear timer,
// superseding whatever was pending.
func (s *FlashStore) schedule(sessionID, slot string) {
	key := slotKey(sessionID, slot)

	s.mu.Lock()

	s.gens[key]++
	gen := s.gens[key]

	if old, ok := s.timers[key]; ok {
		old.Stop()

		if s.prom != nil {
			s.prom.FlashClears.WithLabelValues("superseded").Inc()
			s.prom.FlashPending.Dec()
		}
	}

	s.timers[key] = time.AfterFunc(s.flashTTL, func() {
		s.expire(sessionID, slot, gen)
	})

	if s.prom != nil {
		s.prom.FlashPending.Inc()
	}

	s.mu.Unlock()
}

// invalidate bumps the generation and drops the pending timer so a
// scheduled expiry becomes a no-op.
func (s *FlashStore) invalidate(sessionID, slot string) {
	key := slotKey(sessionID, slot)

	s.mu.Lock()

	s.gens[key]++

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)

		if s.prom != nil {
			s.prom.FlashPending.Dec()
		}
	}

	s.mu.Unlock()
}

// expire runs on the timer goroutine. It only deletes the slot if its
// generation is still current.
func (s *FlashStore) expire(sessionID, slot string, gen uint64) {
	key := slotKey(sessionID, slot)

	s.mu.Lock()

	if s.gens[key] != gen {
		// A newer write superseded this timer.
		s.mu.Unlock()
		return
	}

	delete(s.timers, key)

	if s.prom != nil {
		s.prom.FlashPending.Dec()
	}

	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.rdb.HDel(ctx, sessionKey(sessionID), slot).Err()

	if err != nil {
		// Flash loss is non-fatal, the session key expiry will reap it.
		s.log.Error("flash expiry failed", "slot", slot, "err", err)
		return
	}

	if s.prom != nil {
		s.prom.FlashClears.WithLabelValues("expired").Inc()
	}
}
