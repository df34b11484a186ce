// Package cart turns raw session cart lines into a priced view against
// the live catalog. Carting is a soft reservation: nothing here validates
// or decrements stock; that policy belongs to settlement.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"shopfront/internal/catalog/models"
	"shopfront/internal/session"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
)

// Cataloger is the slice of the catalog service the cart engine needs.
type Cataloger interface {
	Snapshot(ctx context.Context, ns id.Namespace) (models.Snapshot, error)
}

// GroupedLine is one display row: identical (name, category) cart lines
// collapsed into a quantity at the current unit price.
type GroupedLine struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// View is the cart as presented to the shopper. Missing holds lines whose
// item no longer resolves in the catalog; they are shown separately and
// excluded from Total.
type View struct {
	Lines   []GroupedLine  `json:"lines"`
	Missing []session.Line `json:"missing,omitempty"`
	Total   float64        `json:"total"`
}

// Engine implements cart operations over the session table and catalog.
type Engine struct {
	catalog Cataloger
	table   session.Table
	logger  *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(catalog Cataloger, table session.Table, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if table == nil {
		return nil, fmt.Errorf("session table is required")
	}
	e := &Engine{catalog: catalog, table: table}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Add appends a cart line. Stock is deliberately not checked here; it is
// validated once, at settlement, against the then-current catalog.
func (e *Engine) Add(ctx context.Context, userID id.UserID, category, name string) error {
	return e.table.AppendLine(ctx, userID, session.Line{Name: name, Category: category})
}

// ViewCart resolves the user's cart against the current catalog snapshot.
func (e *Engine) ViewCart(ctx context.Context, userID id.UserID) (View, error) {
	s, err := e.table.GetOrCreate(ctx, userID)
	if err != nil {
		return View{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if len(s.Cart) == 0 {
		return View{}, nil
	}

	snap, err := e.catalog.Snapshot(ctx, s.Namespace)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "failed to load catalog for cart view",
				"user_id", userID,
				"namespace", s.Namespace,
				"error", err,
			)
		}
		return View{}, err
	}
	lines, missing := Resolve(snap, s.Cart)

	v := View{Lines: lines, Missing: missing}
	for _, l := range lines {
		v.Total += l.LineTotal
	}
	v.Total = RoundCents(v.Total)
	return v, nil
}

// Resolve groups cart lines by exact (name, category) identity in
// insertion order of first occurrence and prices each group against the
// snapshot. Lines that no longer resolve are returned separately, one
// entry per distinct pair. Settlement uses this same resolution so the
// cart view and the receipt can never disagree on grouping.
func Resolve(snap models.Snapshot, lines []session.Line) ([]GroupedLine, []session.Line) {
	type key struct{ name, category string }

	counts := make(map[key]int, len(lines))
	var order []key
	for _, l := range lines {
		k := key{l.Name, l.Category}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	var grouped []GroupedLine
	var missing []session.Line
	for _, k := range order {
		qty := counts[k]
		item, ok := snap.Resolve(k.category, k.name)
		if !ok {
			missing = append(missing, session.Line{Name: k.name, Category: k.category})
			continue
		}
		grouped = append(grouped, GroupedLine{
			Name:      k.name,
			Category:  k.category,
			Quantity:  qty,
			UnitPrice: item.Price,
			LineTotal: RoundCents(item.Price * float64(qty)),
		})
	}
	return grouped, missing
}

// RoundCents rounds a currency amount to two decimals so float drift
// cannot flip threshold comparisons like the minimum-order check.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
