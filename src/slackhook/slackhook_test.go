package slackhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost(t *testing.T) {
	t.Run("delivers the message", func(t *testing.T) {
		var got atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			got.Store(body)
		}))
		defer srv.Close()

		err := post(srv.URL, "hello cohort")
		require.NoError(t, err)

		var msg message
		require.NoError(t, json.Unmarshal(got.Load().([]byte), &msg))
		assert.Equal(t, "hello cohort", msg.Text)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}))
		defer srv.Close()

		err := post(srv.URL, "eventually")
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		err := post(srv.URL, "nope")
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestNotifyWithoutWebhook(t *testing.T) {
	orig := webhookUrl
	defer func() { webhookUrl = orig }()
	webhookUrl = func() string { return "" }

	// Must be a no-op, not a panic or a hang.
	notify("nobody is listening")
}
