// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/orders"
)

type handlers struct {
	bot    Processor
	orders orders.Store
	logger zerolog.Logger
}

// twiml is the minimal TwiML envelope Twilio expects back from a
// messaging webhook. An empty Message elides the element entirely,
// which tells Twilio to send nothing.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

func writeTwiML(w http.ResponseWriter, reply string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	body, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		body = []byte("<Response></Response>")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	w.Write(body)
}

// twilioWebhook handles inbound WhatsApp messages relayed by Twilio.
// Twilio retries on non-2xx, so every failure mode answers 200 with an
// empty TwiML response rather than surfacing an error code.
func (h *handlers) twilioWebhook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().
				Str(log.FieldRequestID, log.RequestIDFromContext(r.Context())).
				Interface("panic", rec).
				Msg("webhook panicked")
			writeTwiML(w, "")
		}
	}()

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("malformed webhook form")
		writeTwiML(w, "")
		return
	}

	from := strings.TrimPrefix(r.PostFormValue("From"), "whatsapp:")
	body := r.PostFormValue("Body")
	if from == "" {
		logger.Warn().Msg("webhook without sender")
		writeTwiML(w, "")
		return
	}

	reply := h.bot.ProcessMessage(r.Context(), from, body)
	writeTwiML(w, reply)
}

type testRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type testResponse struct {
	Response string `json:"response"`
}

// testWebhook drives the bot without Twilio in the loop, for local
// development and smoke tests.
func (h *handlers) testWebhook(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	reply := h.bot.ProcessMessage(r.Context(), req.UserID, req.Message)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(testResponse{Response: reply})
}

func (h *handlers) recentOrders(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			http.Error(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		limit = n
	}

	list, err := h.orders.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing orders failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(list)
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
