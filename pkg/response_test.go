package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponses(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteTextResponseOK(rr, "all good")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "all good", rr.Body.String())

	rr = httptest.NewRecorder()
	WriteJSONResponseOK(rr, `{"ok":true}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestSendJSON(t *testing.T) {
	type payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	rr := httptest.NewRecorder()
	SendJSON(rr, http.StatusUnauthorized, payload{Success: false, Message: "wrong password"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"wrong password"}`, rr.Body.String())
}
