package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/catalog/models"
	"shopfront/internal/catalog/service"
	id "shopfront/pkg/domain"
)

func TestNamespaceSelect(t *testing.T) {
	p := NamespaceSelect([]id.Namespace{"2b2t", "constantiam"})
	assert.True(t, p.Ephemeral)
	require.Len(t, p.Options, 2)
	assert.Equal(t, Option{Label: "2b2t", Callback: CallbackSelectNamespace, Value: "2b2t"}, p.Options[0])
}

func TestItemCards(t *testing.T) {
	items := []service.ItemView{
		{Name: "apple", Item: models.Item{Price: 2.5, Stock: 10, Image: "http://img"}},
	}

	p := ItemCards("fruit", items)
	require.Len(t, p.Cards, 1)
	assert.Equal(t, "apple", p.Cards[0].Title)
	assert.Contains(t, p.Cards[0].Body, "$2.50")
	assert.Contains(t, p.Cards[0].Body, "Stock: 10")
	assert.Equal(t, "http://img", p.Cards[0].Image)
	require.Len(t, p.Cards[0].Options, 1)
	assert.Equal(t, CallbackAddToCart, p.Cards[0].Options[0].Callback)
}

func TestHome(t *testing.T) {
	p := Home()
	require.Len(t, p.Options, 3)
	callbacks := []string{p.Options[0].Callback, p.Options[1].Callback, p.Options[2].Callback}
	assert.Equal(t, []string{CallbackBrowseCategory, CallbackViewCart, CallbackConfirmOrder}, callbacks)
}
