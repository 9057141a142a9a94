// SPDX-License-Identifier: MIT

package ai

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/endulce/veci/internal/domain"
)

// stripFences removes a markdown code fence the model may wrap around JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// parseDelta converts raw model output into a cart delta. Malformed or
// unexpected output yields an empty delta; extraction fails soft.
func parseDelta(raw string) domain.Delta {
	cleaned := stripFences(raw)
	if !gjson.Valid(cleaned) {
		return domain.Delta{}
	}

	root := gjson.Parse(cleaned)

	// Some models return a bare item list instead of the full object.
	items := root.Get("items")
	if root.IsArray() {
		items = root
	}

	var delta domain.Delta
	items.ForEach(func(_, it gjson.Result) bool {
		product := strings.TrimSpace(it.Get("product").String())
		if product == "" {
			return true
		}
		delta.Items = append(delta.Items, domain.DeltaItem{
			Product:  product,
			Quantity: int(it.Get("quantity").Int()),
			Action:   parseAction(it.Get("action").String()),
		})
		return true
	})

	delta.Modifiers = domain.Modifiers{
		Flavor:     strings.TrimSpace(root.Get("modifiers.flavor").String()),
		Dedication: strings.TrimSpace(root.Get("modifiers.dedication").String()),
		Notes:      strings.TrimSpace(root.Get("modifiers.notes").String()),
	}
	delta.Delivery = domain.DeliveryInfo{
		Method:  parseMethod(root.Get("delivery_info.method").String()),
		Address: strings.TrimSpace(root.Get("delivery_info.address").String()),
	}
	return delta
}

func parseAction(s string) domain.Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remove", "delete":
		return domain.ActionRemove
	case "update", "change":
		return domain.ActionUpdate
	default:
		return domain.ActionAdd
	}
}

// parseMethod tolerates both the English labels the prompt requests and the
// Spanish words models slip into.
func parseMethod(s string) domain.DeliveryMethod {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return domain.MethodUnset
	case strings.Contains(v, "deliv") || strings.Contains(v, "domicilio") || strings.Contains(v, "envio") || strings.Contains(v, "envío"):
		return domain.MethodDelivery
	case strings.Contains(v, "pick") || strings.Contains(v, "retiro") || strings.Contains(v, "tienda") || strings.Contains(v, "local"):
		return domain.MethodPickup
	default:
		return domain.MethodUnset
	}
}
