// SPDX-License-Identifier: MIT

package domain

import (
	"fmt"
	"strings"
)

// DeliveryMethod distinguishes pickup from delivery. Empty means not yet known.
type DeliveryMethod string

const (
	MethodUnset    DeliveryMethod = ""
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

// LineItem is one cart line. Identical products accumulate as separate lines.
type LineItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Modifiers carry order-level attributes. Empty string means unset; merge
// never lets an unset value overwrite a known one.
type Modifiers struct {
	Flavor     string `json:"flavor,omitempty"`
	Dedication string `json:"dedication,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// DeliveryInfo captures how the order reaches the customer. Address is
// meaningful only when Method is delivery.
type DeliveryInfo struct {
	Method  DeliveryMethod `json:"method,omitempty"`
	Address string         `json:"address,omitempty"`
}

// Cart is the accumulating order for one session. Action tags never appear
// here; they live only on Delta instructions.
type Cart struct {
	Items     []LineItem   `json:"items"`
	Modifiers Modifiers    `json:"modifiers"`
	Delivery  DeliveryInfo `json:"delivery_info"`
}

// Action tags a delta item with the mutation it requests.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUpdate Action = "update"
)

// DeltaItem is one extracted item instruction.
type DeltaItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Action   Action `json:"action"`
}

// Delta is the structured add/remove/update payload extracted from one message.
type Delta struct {
	Items     []DeltaItem  `json:"items"`
	Modifiers Modifiers    `json:"modifiers"`
	Delivery  DeliveryInfo `json:"delivery_info"`
}

// Empty reports whether the delta carries no information at all.
func (d Delta) Empty() bool {
	return len(d.Items) == 0 &&
		d.Modifiers == (Modifiers{}) &&
		d.Delivery == (DeliveryInfo{})
}

// productMatches is the fuzzy product-matching strategy used by remove and
// update: case-insensitive substring containment. It can match more lines
// than intended ("torta" matches every torta); that is the accepted behavior.
func productMatches(cartProduct, wanted string) bool {
	return strings.Contains(strings.ToLower(cartProduct), strings.ToLower(wanted))
}

// Apply merges a delta into the cart.
//
// Items: add appends a new line (duplicates accumulate), remove drops every
// fuzzy-matching line, update rewrites the quantity of the first matching
// line or falls back to an add. Modifiers and delivery info merge field by
// field; an unset extracted value never clears a known one.
func (c *Cart) Apply(d Delta) {
	for _, it := range d.Items {
		product := strings.TrimSpace(it.Product)
		if product == "" {
			continue
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		switch it.Action {
		case ActionRemove:
			c.removeMatching(product)
		case ActionUpdate:
			if !c.updateFirstMatching(product, qty) {
				c.Items = append(c.Items, LineItem{Product: product, Quantity: qty})
			}
		default: // add
			c.Items = append(c.Items, LineItem{Product: product, Quantity: qty})
		}
	}

	if d.Modifiers.Flavor != "" {
		c.Modifiers.Flavor = d.Modifiers.Flavor
	}
	if d.Modifiers.Dedication != "" {
		c.Modifiers.Dedication = d.Modifiers.Dedication
	}
	if d.Modifiers.Notes != "" {
		c.Modifiers.Notes = d.Modifiers.Notes
	}

	if d.Delivery.Method != MethodUnset {
		c.Delivery.Method = d.Delivery.Method
	}
	if d.Delivery.Address != "" {
		c.Delivery.Address = d.Delivery.Address
	}
}

func (c *Cart) removeMatching(product string) {
	kept := c.Items[:0]
	for _, line := range c.Items {
		if !productMatches(line.Product, product) {
			kept = append(kept, line)
		}
	}
	c.Items = kept
}

func (c *Cart) updateFirstMatching(product string, qty int) bool {
	for i := range c.Items {
		if productMatches(c.Items[i].Product, product) {
			c.Items[i].Quantity = qty
			return true
		}
	}
	return false
}

// Summary renders the cart for (re-)confirmation. The output is a pure
// function of the cart: re-entering the confirmation state reproduces it
// verbatim.
func (c Cart) Summary() string {
	if len(c.Items) == 0 {
		return "Aún no tengo productos anotados, veci. ¿Qué desea ordenar? 🍰"
	}

	var b strings.Builder
	b.WriteString("Este es su pedido:\n")
	for _, line := range c.Items {
		fmt.Fprintf(&b, "• %d × %s\n", line.Quantity, line.Product)
	}
	if c.Modifiers.Flavor != "" {
		fmt.Fprintf(&b, "Sabor: %s\n", c.Modifiers.Flavor)
	}
	if c.Modifiers.Dedication != "" {
		fmt.Fprintf(&b, "Dedicatoria: %s\n", c.Modifiers.Dedication)
	}
	if c.Modifiers.Notes != "" {
		fmt.Fprintf(&b, "Nota: %s\n", c.Modifiers.Notes)
	}
	switch c.Delivery.Method {
	case MethodPickup:
		b.WriteString("Entrega: retiro en tienda\n")
	case MethodDelivery:
		b.WriteString("Entrega: a domicilio\n")
	default:
		b.WriteString("Entrega: por definir\n")
	}
	if c.Delivery.Address != "" {
		fmt.Fprintf(&b, "Dirección: %s\n", c.Delivery.Address)
	}
	b.WriteString("¿Está todo correcto? (Responda Sí o No)")
	return b.String()
}
