package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

const leaderboardBufferSize = 8

type leaderboardEvent struct {
	Source   string                     `json:"source"`
	Snapshot models.LeaderboardSnapshot `json:"snapshot"`
	SentAt   time.Time                  `json:"sent_at"`
}

// The broker fans out raw snapshots. Consumers must pass each one through
// ForViewer before it leaves the process, so an unpublished round's detail
// never reaches a viewer the filter would withhold it from.
type leaderboardBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan models.LeaderboardSnapshot]struct{}
}

func newLeaderboardBroker() *leaderboardBroker {
	return &leaderboardBroker{subscribers: make(map[uint]map[chan models.LeaderboardSnapshot]struct{})}
}

func (b *leaderboardBroker) subscribe(hackathonID uint) (chan models.LeaderboardSnapshot, func()) {
	ch := make(chan models.LeaderboardSnapshot, leaderboardBufferSize)

	b.mu.Lock()
	if b.subscribers[hackathonID] == nil {
		b.subscribers[hackathonID] = make(map[chan models.LeaderboardSnapshot]struct{})
	}
	b.subscribers[hackathonID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[hackathonID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.subscribers, hackathonID)
			}
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

func (b *leaderboardBroker) broadcast(snapshot models.LeaderboardSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[snapshot.HackathonID] {
		select {
		case ch <- snapshot:
		default:
			// Slow consumers drop refreshes; the next one supersedes anyway.
		}
	}
}

// Subscribe registers a live listener for a hackathon's leaderboard refreshes.
// Channel payloads are unredacted snapshots; callers must run them through
// ForViewer before serving them. The returned cancel func must be called when
// the consumer disconnects.
func (s *leaderboardService) Subscribe(hackathonID uint) (<-chan models.LeaderboardSnapshot, func()) {
	return s.broker.subscribe(hackathonID)
}

// Start begins consuming cross-node refresh events. Safe to call with no NATS
// connection configured; local broadcasts still work.
func (s *leaderboardService) Start(ctx context.Context) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		var event leaderboardEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Warn().Err(err).Msg("discarding malformed leaderboard event")
			return
		}
		if event.Source == s.nodeID {
			return
		}
		s.broker.broadcast(event.Snapshot)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to leaderboard events")
		return
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
}

func (s *leaderboardService) publish(snapshot models.LeaderboardSnapshot) {
	s.broker.broadcast(snapshot)

	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(leaderboardEvent{
		Source:   s.nodeID,
		Snapshot: snapshot,
		SentAt:   s.now(),
	})
	if err != nil {
		return
	}
	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish leaderboard event")
	}
}
