package order

import (
	"fmt"
	"strings"
	"time"

	id "shopfront/pkg/domain"
)

// ReceiptLine is one settled line with price and quantity captured at
// confirmation time. Lines are never re-resolved after settlement.
type ReceiptLine struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Receipt is the frozen record of a settled order.
type Receipt struct {
	ID        string        `json:"id"`
	UserID    id.UserID     `json:"user_id"`
	Namespace id.Namespace  `json:"namespace"`
	Lines     []ReceiptLine `json:"lines"`
	Total     float64       `json:"total"`
	Channel   id.ChannelID  `json:"channel,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Render formats the receipt for posting into the order channel and for
// attaching to transcripts.
func (r *Receipt) Render() string {
	var b strings.Builder
	b.WriteString("Order Receipt\n")
	fmt.Fprintf(&b, "User: %s\nCatalog: %s\n\n", r.UserID, r.Namespace)
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%dx %s @ $%.2f\n", l.Quantity, l.Name, l.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f", r.Total)
	return b.String()
}
