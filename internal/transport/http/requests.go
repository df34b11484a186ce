package httptransport

// OpenTicketRequest selects the catalog a shopping ticket is opened for.
type OpenTicketRequest struct {
	Namespace string `json:"namespace"`
}

// CloseTicketRequest names the ticket channel to close.
type CloseTicketRequest struct {
	Channel string `json:"channel"`
}

// AddToCartRequest appends one item selection to the caller's cart.
type AddToCartRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// UpsertItemRequest creates or replaces a catalog item. Price and stock
// arrive as strings, matching the free-form operator input they come from;
// the catalog service parses and validates them.
type UpsertItemRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    string `json:"stock"`
	Image    string `json:"image"`
}

// EditItemRequest rewrites an existing item. NewName renames it; empty
// keeps the current name.
type EditItemRequest struct {
	Category string `json:"category"`
	NewName  string `json:"new_name"`
	Price    string `json:"price"`
	Stock    string `json:"stock"`
	Image    string `json:"image"`
}
