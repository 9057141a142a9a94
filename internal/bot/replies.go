// SPDX-License-Identifier: MIT

package bot

import (
	"fmt"
	"strings"

	"github.com/endulce/veci/internal/domain"
)

// Fixed reply catalogue. All customer-facing copy lives here.
const (
	msgClosed = "Gracias por escribirnos veci 🌙 Por el momento estamos cerrados. " +
		"Nuestro horario es de 08:00 a 20:00. Le respondemos apenas abramos."

	msgCancelled = "Listo veci, cancelé su pedido. Cuando guste empezamos de nuevo 👍"

	msgHandoff = "Entendido veci, ya le aviso a una persona real para que le atienda. Espere un momento 👍"

	msgAskMethod = "¿Su pedido es para retiro en tienda o entrega a domicilio?"

	msgAskAddress = "¡Perfecto! ¿A qué dirección le enviamos el pedido?"

	msgOrderConfirmed = "¡Pedido confirmado veci! 🎉\n\n" +
		"Para completar, realice la transferencia a la cuenta de ahorros " +
		"Banco Pichincha #2204567890 (En-Dulce) y envíe el comprobante por aquí.\n\n" +
		"¡Gracias por su compra! 🍰"

	msgOrderSaveError = "Ay veci, tuve un problema guardando su pedido 🙏 ¿Me confirma de nuevo en un momentito?"

	msgWhatToChange = "Claro veci, ¿qué desea cambiar o agregar a su pedido?"

	msgModifierAck = "¡Perfecto, tomo nota! ¿Algo más?"

	msgPickupAck = "Anotado, retiro en tienda entonces 👍 ¿Algo más?"

	msgDeliveryAck = "Anotado, entrega a domicilio 🛵 ¿Me indica la dirección?"

	msgApology = "Disculpe veci, se me cruzaron los cables un momento 🙏 ¿Me repite por favor?"
)

// Handoff reason tags forwarded to the operator.
const (
	reasonUpset  = "Cliente molesto"
	reasonDirect = "Solicitud directa"
)

// exitPhrases end the ordering phase when the whole trimmed message matches.
var exitPhrases = map[string]struct{}{
	"listo":       {},
	"eso es todo": {},
	"confirmar":   {},
	"ya":          {},
	"gracias":     {},
	"fin":         {},
	"nada mas":    {},
	"nada más":    {},
	"seria todo":  {},
	"sería todo":  {},
}

// frustrationKeywords trigger a handoff from any state (substring match).
var frustrationKeywords = []string{
	"pesimo",
	"pésimo",
	"molesto",
	"molesta",
	"terrible",
	"horrible",
	"queja",
	"reclamo",
	"estafa",
	"mal servicio",
}

// affirmations accept the confirmation summary (substring match).
var affirmations = []string{
	"si",
	"sí",
	"yes",
	"claro",
	"dale",
	"correcto",
	"confirmo",
	"de una",
}

// containsAny reports whether lower contains any of the given keywords.
// lower must already be lower-cased.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ackItems renders one acknowledgment line per delta item, phrased by action.
func ackItems(items []domain.DeltaItem) string {
	lines := make([]string, 0, len(items)+1)
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		switch it.Action {
		case domain.ActionRemove:
			lines = append(lines, fmt.Sprintf("🗑️ Eliminado: %s.", it.Product))
		case domain.ActionUpdate:
			lines = append(lines, fmt.Sprintf("✏️ Actualizado: %dx %s.", qty, it.Product))
		default:
			lines = append(lines, fmt.Sprintf("✅ Anotado: %dx %s.", qty, it.Product))
		}
	}
	lines = append(lines, "", `¿Algo más? Cuando termine escriba "listo" 👍`)
	return strings.Join(lines, "\n")
}
