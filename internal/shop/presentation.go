// Package shop builds the declarative presentation requests the core
// hands to the gateway adapter. The core decides which options a user
// may pick and which callback each option fires; how options are laid
// out visually is entirely the adapter's business.
package shop

import (
	"fmt"

	"shopfront/internal/catalog/service"
	id "shopfront/pkg/domain"
)

// Option is one selectable choice with the callback the gateway should
// fire when it is picked.
type Option struct {
	Label    string `json:"label"`
	Callback string `json:"callback"`
	Value    string `json:"value,omitempty"`
}

// Card is an item presentation: text plus an optional image and its own
// option set (add-to-cart).
type Card struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Image   string   `json:"image,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Presentation is a rendering request: text, selectable options, and
// optionally item cards. Ephemeral marks responses only the triggering
// user should see.
type Presentation struct {
	Text      string   `json:"text"`
	Ephemeral bool     `json:"ephemeral,omitempty"`
	Options   []Option `json:"options,omitempty"`
	Cards     []Card   `json:"cards,omitempty"`
}

// Callback identifiers the gateway adapter routes back into the core.
const (
	CallbackSelectNamespace = "select_namespace"
	CallbackBrowseCategory  = "browse_category"
	CallbackAddToCart       = "add_to_cart"
	CallbackViewCart        = "view_cart"
	CallbackConfirmOrder    = "confirm_order"
	CallbackCloseTicket     = "close_ticket"
)

// PlainText flattens the presentation for surfaces that only take text,
// like the startup post into the storefront channel.
func (p Presentation) PlainText() string {
	out := p.Text
	for _, o := range p.Options {
		out += "\n- " + o.Label
	}
	return out
}

// NamespaceSelect presents the served catalogs for selection.
func NamespaceSelect(namespaces []id.Namespace) Presentation {
	p := Presentation{Text: "Select your server:", Ephemeral: true}
	for _, ns := range namespaces {
		p.Options = append(p.Options, Option{
			Label:    string(ns),
			Callback: CallbackSelectNamespace,
			Value:    string(ns),
		})
	}
	return p
}

// Home presents the in-ticket main menu.
func Home() Presentation {
	return Presentation{
		Text: "What would you like to do?",
		Options: []Option{
			{Label: "View Items", Callback: CallbackBrowseCategory},
			{Label: "View Cart", Callback: CallbackViewCart},
			{Label: "Confirm Order", Callback: CallbackConfirmOrder},
		},
	}
}

// CategoryList presents the categories of a catalog.
func CategoryList(categories []string) Presentation {
	p := Presentation{Text: "Select a category:"}
	for _, c := range categories {
		p.Options = append(p.Options, Option{
			Label:    c,
			Callback: CallbackBrowseCategory,
			Value:    c,
		})
	}
	return p
}

// ItemCards presents the purchasable items of one category, each with an
// add-to-cart option.
func ItemCards(category string, items []service.ItemView) Presentation {
	p := Presentation{Text: fmt.Sprintf("Items in %s:", category)}
	for _, it := range items {
		p.Cards = append(p.Cards, Card{
			Title: it.Name,
			Body:  fmt.Sprintf("$%.2f\nStock: %d", it.Item.Price, it.Item.Stock),
			Image: it.Item.Image,
			Options: []Option{
				{Label: "Add to Cart", Callback: CallbackAddToCart, Value: it.Name},
			},
		})
	}
	return p
}
