package ticket

import (
	"fmt"
	"strings"
)

// RenderTranscript formats a channel history for the log sink: a header
// naming the channel, then one line per message, oldest first.
func RenderTranscript(channelName string, messages []Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transcript for %s\n\n", channelName)
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Author, m.Content)
	}
	return b.String()
}
