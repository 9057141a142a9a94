// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldUser      = "user"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Dialogue fields
	FieldIntent   = "intent"
	FieldGuard    = "guard"
	FieldOldState = "old_state"
	FieldNewState = "new_state"
)

// MaskUser redacts a user identifier (typically a phone number) so logs never
// carry the full value. The last four characters are kept for correlation.
func MaskUser(id string) string {
	const keep = 4
	if len(id) <= keep {
		return "****"
	}
	return "****" + id[len(id)-keep:]
}
