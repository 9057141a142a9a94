// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endulce/veci/internal/domain"
)

func TestNewTwilio_MissingCredentialsDisables(t *testing.T) {
	n := NewTwilio(TwilioConfig{})
	assert.IsType(t, Disabled{}, n)
	assert.NoError(t, n.NewOrder(context.Background(), "+1", nil))
}

func TestTwilioNotifier_NewOrder(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		gotForm = map[string]string{
			"From": r.FormValue("From"),
			"To":   r.FormValue("To"),
			"Body": r.FormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewTwilio(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+111",
		AdminPhone: "whatsapp:+222",
		BaseURL:    srv.URL,
	})

	err := n.NewOrder(context.Background(), "+593999000111", []domain.LineItem{
		{Product: "cheesecake", Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "whatsapp:+111", gotForm["From"])
	assert.Equal(t, "whatsapp:+222", gotForm["To"])
	assert.Contains(t, gotForm["Body"], "NUEVO PEDIDO CONFIRMADO")
	assert.Contains(t, gotForm["Body"], "- 2x cheesecake")
	assert.Contains(t, gotForm["Body"], "+593999000111")
}

func TestTwilioNotifier_Handoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.FormValue("Body"), "Cliente molesto")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewTwilio(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+111",
		AdminPhone: "+222",
		BaseURL:    srv.URL,
	})
	require.NoError(t, n.Handoff(context.Background(), "+593999000111", "Cliente molesto"))
}

func TestTwilioNotifier_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code": 20003}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTwilio(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "bad",
		FromNumber: "+111",
		AdminPhone: "+222",
		BaseURL:    srv.URL,
	})
	err := n.Handoff(context.Background(), "+1", "Solicitud directa")
	assert.ErrorContains(t, err, "401")
}
