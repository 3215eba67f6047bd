package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, env *testEnv, v Verifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &Handler{Pipeline: env.pipeline, Verifier: v}
	h.Register(r.Group("/webhooks/twilio"))
	return r
}

func TestVoiceStatusEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}
	r := newTestRouter(t, env, v)

	body := url.Values{
		"CallSid":    {"CA100"},
		"From":       {"+15550001111"},
		"To":         {"+15550002222"},
		"CallStatus": {"no-answer"},
	}.Encode()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, v, "/webhooks/twilio/voice-status", body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != StatusReplied {
		t.Fatalf("outcome = %+v", out)
	}
	if n := len(env.provider.Sends()); n != 1 {
		t.Fatalf("sends = %d, want 1", n)
	}
}

func TestVoiceStatusMissingFieldRejected(t *testing.T) {
	env := newTestEnv(t)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}
	r := newTestRouter(t, env, v)

	// No CallStatus.
	body := url.Values{
		"CallSid": {"CA101"},
		"From":    {"+15550001111"},
		"To":      {"+15550002222"},
	}.Encode()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, v, "/webhooks/twilio/voice-status", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if n := len(env.store.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}
}

func TestSMSInboundRejectedWithoutSignatureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}
	r := newTestRouter(t, env, v)

	body := url.Values{
		"MessageSid": {"SM100"},
		"From":       {"+15550001111"},
		"To":         {"+15550002222"},
		"Body":       {"hello"},
	}.Encode()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/sms-inbound", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(signatureHeader, "forged")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if n := len(env.store.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}
	if n := len(env.provider.Sends()); n != 0 {
		t.Fatalf("sends = %d, want 0", n)
	}
}

func TestSMSInboundEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}
	r := newTestRouter(t, env, v)

	body := url.Values{
		"MessageSid": {"SM101"},
		"From":       {"+15550001111"},
		"To":         {"+15550002222"},
		"Body":       {"hi, are you open today?"},
	}.Encode()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, v, "/webhooks/twilio/sms-inbound", body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != StatusReplied {
		t.Fatalf("outcome = %+v", out)
	}
}
