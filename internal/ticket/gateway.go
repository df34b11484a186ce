package ticket

import (
	"context"
	"time"

	id "shopfront/pkg/domain"
)

// Message is one entry of a channel's history as the gateway reports it.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

// ChannelGateway is the messaging platform seam. The real platform
// adapter lives outside the core; the in-process implementation in
// internal/gateway/memory backs tests and single-binary deployments.
//
// All calls may fail; callers report failures to the user instead of
// crashing.
type ChannelGateway interface {
	// CreatePrivateChannel creates a channel visible only to its owner
	// (and the bot) and returns its handle.
	CreatePrivateChannel(ctx context.Context, owner id.UserID, name, topic string) (id.ChannelID, error)

	// DeleteChannel removes a channel. Deletion is terminal.
	DeleteChannel(ctx context.Context, ref id.ChannelID) error

	// Resolve returns the channel name for a live handle, or
	// sentinel.ErrChannelGone when the handle no longer resolves
	// (channel deleted out-of-band).
	Resolve(ctx context.Context, ref id.ChannelID) (string, error)

	// History returns the channel's full message history, oldest first.
	History(ctx context.Context, ref id.ChannelID) ([]Message, error)

	// Post sends a message into a channel.
	Post(ctx context.Context, ref id.ChannelID, content string) error

	// PostFile uploads a file attachment into a channel.
	PostFile(ctx context.Context, ref id.ChannelID, name string, contents []byte) error
}

// Record is one appended entry in the external log sink. Exactly one of
// Transcript or TranscriptFile is set, depending on the size threshold.
type Record struct {
	ChannelName    string `json:"channel_name"`
	Transcript     string `json:"transcript,omitempty"`
	TranscriptFile []byte `json:"transcript_file,omitempty"`
	FileName       string `json:"file_name,omitempty"`
	Receipt        string `json:"receipt,omitempty"`
}

// LogSink receives ticket transcripts on close. Delivery must succeed
// before the ticket channel may be deleted.
type LogSink interface {
	Append(ctx context.Context, record Record) error
}
