// Package memory provides an in-process implementation of the platform
// gateway and log sink. It backs unit tests and single-binary
// deployments where no real messaging platform is attached; the
// semantics (private channels, ordered history, terminal deletion)
// mirror what the real adapter must provide.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopfront/internal/ticket"
	id "shopfront/pkg/domain"
	"shopfront/pkg/platform/sentinel"
)

type channel struct {
	name     string
	topic    string
	owner    id.UserID
	messages []ticket.Message
}

// Gateway is an in-memory ChannelGateway.
type Gateway struct {
	mu       sync.RWMutex
	channels map[id.ChannelID]*channel
	now      func() time.Time
}

func NewGateway() *Gateway {
	return &Gateway{
		channels: make(map[id.ChannelID]*channel),
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source; tests use it for
// deterministic transcripts.
func (g *Gateway) SetClock(now func() time.Time) { g.now = now }

func (g *Gateway) CreatePrivateChannel(_ context.Context, owner id.UserID, name, topic string) (id.ChannelID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref := id.ChannelID(uuid.NewString())
	g.channels[ref] = &channel{name: name, topic: topic, owner: owner}
	return ref, nil
}

func (g *Gateway) DeleteChannel(_ context.Context, ref id.ChannelID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.channels[ref]; !ok {
		return sentinel.ErrChannelGone
	}
	delete(g.channels, ref)
	return nil
}

func (g *Gateway) Resolve(_ context.Context, ref id.ChannelID) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ch, ok := g.channels[ref]
	if !ok {
		return "", sentinel.ErrChannelGone
	}
	return ch.name, nil
}

func (g *Gateway) History(_ context.Context, ref id.ChannelID) ([]ticket.Message, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ch, ok := g.channels[ref]
	if !ok {
		return nil, sentinel.ErrChannelGone
	}
	out := make([]ticket.Message, len(ch.messages))
	copy(out, ch.messages)
	return out, nil
}

func (g *Gateway) Post(ctx context.Context, ref id.ChannelID, content string) error {
	return g.Say(ctx, ref, "shopfront", content)
}

// PostFile records a file upload as a message naming the attachment.
// The in-process gateway has nowhere to store blobs; the name and size
// are what transcripts and tests care about.
func (g *Gateway) PostFile(ctx context.Context, ref id.ChannelID, name string, contents []byte) error {
	return g.Say(ctx, ref, "shopfront", fmt.Sprintf("[file] %s (%d bytes)", name, len(contents)))
}

// Say appends a message from an arbitrary author; tests use it to
// simulate shopper chatter inside a ticket.
func (g *Gateway) Say(_ context.Context, ref id.ChannelID, author, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[ref]
	if !ok {
		return sentinel.ErrChannelGone
	}
	ch.messages = append(ch.messages, ticket.Message{
		Timestamp: g.now(),
		Author:    author,
		Content:   content,
	})
	return nil
}

// ChannelCount reports how many channels are live.
func (g *Gateway) ChannelCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.channels)
}

// ChannelName returns the name of a live channel, or "" when gone.
func (g *Gateway) ChannelName(ref id.ChannelID) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if ch, ok := g.channels[ref]; ok {
		return ch.name
	}
	return ""
}

// Sink is an in-memory LogSink with failure injection for tests.
type Sink struct {
	mu      sync.Mutex
	records []ticket.Record
	err     error
}

func NewSink() *Sink {
	return &Sink{}
}

// Fail makes subsequent Append calls return err; nil restores delivery.
func (s *Sink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Sink) Append(_ context.Context, record ticket.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

// Records returns all appended records, oldest first.
func (s *Sink) Records() []ticket.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ticket.Record, len(s.records))
	copy(out, s.records)
	return out
}
