package ticket

import (
	"context"
	"fmt"

	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
)

// ChannelSink delivers transcripts into a designated log channel on the
// platform. This is the production LogSink: the operators read closed
// tickets where they read everything else.
type ChannelSink struct {
	gateway ChannelGateway
	channel id.ChannelID
}

func NewChannelSink(gateway ChannelGateway, channel id.ChannelID) (*ChannelSink, error) {
	if gateway == nil {
		return nil, fmt.Errorf("channel gateway is required")
	}
	if channel.IsZero() {
		return nil, fmt.Errorf("log channel is required")
	}
	return &ChannelSink{gateway: gateway, channel: channel}, nil
}

// Append posts the record into the log channel: the receipt first when
// present, then the transcript inline or as an attached file.
func (s *ChannelSink) Append(ctx context.Context, record Record) error {
	if record.Receipt != "" {
		body := fmt.Sprintf("Receipt for %s:\n%s", record.ChannelName, record.Receipt)
		if err := s.gateway.Post(ctx, s.channel, body); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to post receipt to log channel")
		}
	}

	if record.FileName != "" {
		if err := s.gateway.PostFile(ctx, s.channel, record.FileName, record.TranscriptFile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to upload transcript file")
		}
		return nil
	}

	if err := s.gateway.Post(ctx, s.channel, record.Transcript); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to post transcript to log channel")
	}
	return nil
}
