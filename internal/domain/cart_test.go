// SPDX-License-Identifier: MIT

package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCartApply_AddAccumulatesDuplicates(t *testing.T) {
	var cart Cart
	cart.Apply(Delta{Items: []DeltaItem{{Product: "cheesecake", Quantity: 2}}})
	cart.Apply(Delta{Items: []DeltaItem{{Product: "cheesecake", Quantity: 1, Action: ActionAdd}}})

	want := []LineItem{
		{Product: "cheesecake", Quantity: 2},
		{Product: "cheesecake", Quantity: 1},
	}
	if diff := cmp.Diff(want, cart.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestCartApply_DefaultQuantityIsOne(t *testing.T) {
	var cart Cart
	cart.Apply(Delta{Items: []DeltaItem{{Product: "torta negra"}}})
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartApply_RemoveIsFuzzyAndMultiline(t *testing.T) {
	cart := Cart{Items: []LineItem{
		{Product: "Torta Negra", Quantity: 1},
		{Product: "torta de chocolate", Quantity: 2},
		{Product: "cheesecake", Quantity: 1},
	}}
	cart.Apply(Delta{Items: []DeltaItem{{Product: "torta", Action: ActionRemove}}})

	want := []LineItem{{Product: "cheesecake", Quantity: 1}}
	if diff := cmp.Diff(want, cart.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestCartApply_UpdateFirstMatchOrImplicitAdd(t *testing.T) {
	cart := Cart{Items: []LineItem{
		{Product: "cheesecake", Quantity: 1},
		{Product: "cheesecake de mora", Quantity: 1},
	}}

	// Only the first fuzzy match is rewritten.
	cart.Apply(Delta{Items: []DeltaItem{{Product: "cheese", Quantity: 5, Action: ActionUpdate}}})
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)

	// No match degrades to an add.
	cart.Apply(Delta{Items: []DeltaItem{{Product: "brownie", Quantity: 3, Action: ActionUpdate}}})
	assert.Equal(t, LineItem{Product: "brownie", Quantity: 3}, cart.Items[2])
}

func TestCartApply_NullSafeMerge(t *testing.T) {
	cart := Cart{
		Modifiers: Modifiers{Flavor: "mora", Dedication: "Feliz cumpleaños"},
		Delivery:  DeliveryInfo{Method: MethodDelivery, Address: "Av. Amazonas 123"},
	}

	// A delta with everything unset must change nothing.
	before := cart
	cart.Apply(Delta{})
	if diff := cmp.Diff(before, cart); diff != "" {
		t.Errorf("all-null delta mutated cart (-want +got):\n%s", diff)
	}

	// Known values win only when the delta actually carries one.
	cart.Apply(Delta{Modifiers: Modifiers{Flavor: "chocolate"}})
	assert.Equal(t, "chocolate", cart.Modifiers.Flavor)
	assert.Equal(t, "Feliz cumpleaños", cart.Modifiers.Dedication)
	assert.Equal(t, MethodDelivery, cart.Delivery.Method)
}

func TestCartApply_IgnoresBlankProducts(t *testing.T) {
	var cart Cart
	cart.Apply(Delta{Items: []DeltaItem{{Product: "   "}, {Product: ""}}})
	assert.Empty(t, cart.Items)
}

func TestSummary_EmptyCartPrompts(t *testing.T) {
	var cart Cart
	assert.Contains(t, cart.Summary(), "Aún no tengo productos anotados")
}

func TestSummary_Idempotent(t *testing.T) {
	cart := Cart{
		Items:     []LineItem{{Product: "cheesecake", Quantity: 2}},
		Modifiers: Modifiers{Flavor: "maracuyá"},
		Delivery:  DeliveryInfo{Method: MethodDelivery, Address: "Calle Larga 10"},
	}
	assert.Equal(t, cart.Summary(), cart.Summary())
}

func TestSummary_Structure(t *testing.T) {
	cart := Cart{
		Items:    []LineItem{{Product: "cheesecake", Quantity: 2}, {Product: "brownie", Quantity: 1}},
		Delivery: DeliveryInfo{Method: MethodPickup},
	}
	s := cart.Summary()

	assert.Contains(t, s, "• 2 × cheesecake")
	assert.Contains(t, s, "• 1 × brownie")
	assert.Contains(t, s, "retiro en tienda")
	assert.True(t, strings.HasSuffix(s, "¿Está todo correcto? (Responda Sí o No)"))
}

func TestSummary_UnsetMethodRendersPending(t *testing.T) {
	cart := Cart{Items: []LineItem{{Product: "torta", Quantity: 1}}}
	assert.Contains(t, cart.Summary(), "Entrega: por definir")
}

func TestDeltaEmpty(t *testing.T) {
	assert.True(t, Delta{}.Empty())
	assert.False(t, Delta{Items: []DeltaItem{{Product: "x"}}}.Empty())
	assert.False(t, Delta{Delivery: DeliveryInfo{Method: MethodPickup}}.Empty())
}
