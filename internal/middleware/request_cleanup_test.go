package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackedBody struct {
	reader    io.Reader
	bytesRead int
	closed    bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	b.bytesRead += n
	return n, err
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndCloseRequest(t *testing.T) {
	handler := DrainAndCloseRequest()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// handler ignores the body on purpose
		w.WriteHeader(http.StatusOK)
	})

	t.Run("small body drained and closed", func(t *testing.T) {
		body := &trackedBody{reader: strings.NewReader("{}")}
		req := httptest.NewRequest("POST", "/", nil)
		req.Body = body

		handler(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, body.closed)
		assert.Equal(t, 2, body.bytesRead)
	})

	t.Run("oversized body drain is capped", func(t *testing.T) {
		body := &trackedBody{reader: strings.NewReader(strings.Repeat("a", maxDrainBytes*3))}
		req := httptest.NewRequest("POST", "/", nil)
		req.Body = body

		handler(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, body.closed)
		assert.Equal(t, maxDrainBytes, body.bytesRead)
	})
}
