package httptransport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"shopfront/internal/cart"
	catalogsvc "shopfront/internal/catalog/service"
	"shopfront/internal/catalog/store"
	memgw "shopfront/internal/gateway/memory"
	"shopfront/internal/order"
	"shopfront/internal/platform/audit"
	"shopfront/internal/platform/logger"
	"shopfront/internal/session"
	"shopfront/internal/ticket"
	"shopfront/pkg/testutil"
)

const testAdminToken = "test-admin-token"

type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	gateway *memgw.Gateway
	trail   *audit.InMemoryStore
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	log := logger.New()

	catalog, err := catalogsvc.New(store.NewInMemoryStore(), []string{"2b2t", "constantiam"}, catalogsvc.WithLogger(log))
	s.Require().NoError(err)

	table := session.NewInMemoryTable()
	carts, err := cart.New(catalog, table)
	s.Require().NoError(err)

	s.gateway = memgw.NewGateway()
	tickets, err := ticket.New(table, s.gateway, memgw.NewSink(), ticket.WithLogger(log))
	s.Require().NoError(err)

	orders, err := order.New(catalog, table, tickets, order.WithLogger(log))
	s.Require().NoError(err)

	s.trail = audit.NewInMemoryStore()
	handler := New(catalog, carts, tickets, orders, table, s.trail, log)
	s.router = NewRouter(handler, testAdminToken)
}

func (s *HandlerSuite) upsertApple() {
	req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/catalog/2b2t/items", UpsertItemRequest{
		Category: "fruit",
		Name:     "apple",
		Price:    "2.50",
		Stock:    "10",
	}), testAdminToken, "ops")
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)
}

func (s *HandlerSuite) openTicket(user string) string {
	req := testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets", OpenTicketRequest{Namespace: "2b2t"}), user)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	return (*body)["channel"].(string)
}

func (s *HandlerSuite) TestHealthz() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *HandlerSuite) TestShopperRoutesRequireIdentity() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/cart", AddToCartRequest{Category: "fruit", Name: "apple"}))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	testutil.AssertErrorCode(s.T(), rr, "unauthorized")
}

func (s *HandlerSuite) TestAdminRoutesRequireToken() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/catalog/2b2t/items", UpsertItemRequest{Category: "fruit", Name: "apple", Price: "1", Stock: "1"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	req = testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/catalog/2b2t/items", UpsertItemRequest{Category: "fruit", Name: "apple", Price: "1", Stock: "1"}), "wrong-token", "")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
}

func (s *HandlerSuite) TestListNamespaces() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/shop/namespaces"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	options := (*body)["options"].([]any)
	s.Len(options, 2)
}

func (s *HandlerSuite) TestUpsertValidation() {
	req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/catalog/2b2t/items", UpsertItemRequest{
		Category: "fruit",
		Name:     "apple",
		Price:    "free",
		Stock:    "10",
	}), testAdminToken, "")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
	testutil.AssertErrorCode(s.T(), rr, "invalid_input")
}

func (s *HandlerSuite) TestOpenTicketUnknownNamespace() {
	req := testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets", OpenTicketRequest{Namespace: "9b9t"}), "alice")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *HandlerSuite) TestOpenTicketTwiceConflicts() {
	s.openTicket("alice")

	req := testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets", OpenTicketRequest{Namespace: "2b2t"}), "alice")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusConflict)

	body := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	s.Equal("ticket_already_open", (*body)["error"])
	s.NotEmpty((*body)["channel"], "the existing ticket is surfaced")
}

func (s *HandlerSuite) TestShoppingFlow() {
	s.upsertApple()
	s.openTicket("alice")

	s.Run("categories come from the selected catalog", func() {
		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewRequest(s.T(), http.MethodGet, "/shop/categories"), "alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Len((*body)["options"].([]any), 1)
	})

	s.Run("item cards list purchasable items", func() {
		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewRequest(s.T(), http.MethodGet, "/shop/items?category=fruit"), "alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Len((*body)["cards"].([]any), 1)
	})

	s.Run("add to cart and view", func() {
		for i := 0; i < 2; i++ {
			rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/cart", AddToCartRequest{Category: "fruit", Name: "apple"}), "alice"))
			testutil.AssertStatus(s.T(), rr, http.StatusOK)
		}

		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewRequest(s.T(), http.MethodGet, "/shop/cart"), "alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		view := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(5.00, (*view)["total"])
	})

	s.Run("confirm order settles the cart", func() {
		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/orders", nil), "alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		receipt := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(5.00, (*receipt)["total"])

		rr = testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewRequest(s.T(), http.MethodGet, "/shop/cart"), "alice"))
		view := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(0.0, (*view)["total"])
	})
}

func (s *HandlerSuite) TestCloseTicketRequiresOwnership() {
	channel := s.openTicket("alice")

	s.Run("an anonymous caller is refused", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets/close", CloseTicketRequest{Channel: channel}))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal(1, s.gateway.ChannelCount(), "the ticket survives")
	})

	s.Run("another shopper is refused", func() {
		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets/close", CloseTicketRequest{Channel: channel}), "mallory"))
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
		s.Equal(1, s.gateway.ChannelCount(), "the ticket survives")
	})

	s.Run("the owner closes it", func() {
		rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/tickets/close", CloseTicketRequest{Channel: channel}), "alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(0, s.gateway.ChannelCount())
	})
}

func (s *HandlerSuite) TestAdminClosesAnyTicket() {
	channel := s.openTicket("alice")

	req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/tickets/close", CloseTicketRequest{Channel: channel}), testAdminToken, "ops")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(0, s.gateway.ChannelCount())
}

func (s *HandlerSuite) TestConfirmBelowMinimum() {
	s.upsertApple()
	s.openTicket("alice")

	rr := testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/cart", AddToCartRequest{Category: "fruit", Name: "apple"}), "alice"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.AsShopper(testutil.NewJSONRequest(s.T(), http.MethodPost, "/shop/orders", nil), "alice"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestDeleteItem() {
	s.upsertApple()

	req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodDelete, "/admin/catalog/2b2t/items/apple?category=fruit"), testAdminToken, "")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	req = testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodDelete, "/admin/catalog/2b2t/items/apple?category=fruit"), testAdminToken, "")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *HandlerSuite) TestEditItemRename() {
	s.upsertApple()

	req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/admin/catalog/2b2t/items/apple", EditItemRequest{
		Category: "fruit",
		NewName:  "golden apple",
		Price:    "5.00",
		Stock:    "3",
	}), testAdminToken, "")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/admin/catalog/2b2t"), testAdminToken, ""))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	snap := testutil.UnmarshalResponse[map[string]map[string]any](s.T(), rr)
	_, hasOld := (*snap)["fruit"]["apple"]
	s.False(hasOld)
	_, hasNew := (*snap)["fruit"]["golden apple"]
	s.True(hasNew)
}

func (s *HandlerSuite) TestAuditTrailEndpoint() {
	rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit/alice"), testAdminToken, ""))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}
