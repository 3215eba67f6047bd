package webhook

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Vector from Twilio's security documentation.
func TestExpectedSignatureDocVector(t *testing.T) {
	v := Verifier{AuthToken: "12345"}
	callbackURL := "https://mycompany.com/myapp.php?foo=1&bar=2"
	params := url.Values{
		"CallSid": {"CA1234567890ABCDE"},
		"Caller":  {"+14158675309"},
		"Digits":  {"1234"},
		"From":    {"+14158675309"},
		"To":      {"+18005551212"},
	}

	got := v.Expected(callbackURL, params)
	want := "RSOYDt4T1cUTdK1PDd93/VVr8B8="
	if got != want {
		t.Fatalf("Expected() = %q, want %q", got, want)
	}
	if !v.Valid(callbackURL, params, want) {
		t.Fatal("Valid() = false for correct signature")
	}
	if v.Valid(callbackURL, params, "bogus") {
		t.Fatal("Valid() = true for wrong signature")
	}
	if v.Valid(callbackURL, params, "") {
		t.Fatal("Valid() = true for empty signature")
	}
}

func signedRequest(t *testing.T, v Verifier, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := url.ParseQuery(body)
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	req.Header.Set(signatureHeader, v.Expected(strings.TrimSuffix(v.BaseURL, "/")+path, form))
	return req
}

func TestMiddlewareRejectsUnsigned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}

	handled := false
	r := gin.New()
	r.POST("/webhooks/twilio/sms-inbound", v.Middleware(), func(c *gin.Context) {
		handled = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/sms-inbound",
		strings.NewReader("From=%2B15550001111&To=%2B15550002222&Body=hi&MessageSid=SM1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if handled {
		t.Fatal("handler ran for unsigned delivery")
	}
}

func TestMiddlewareAcceptsSigned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := Verifier{AuthToken: "token", BaseURL: "https://hooks.example.com"}

	var seen url.Values
	r := gin.New()
	r.POST("/webhooks/twilio/sms-inbound", v.Middleware(), func(c *gin.Context) {
		seen = formFrom(c)
		c.Status(http.StatusOK)
	})

	req := signedRequest(t, v, "/webhooks/twilio/sms-inbound",
		"From=%2B15550001111&To=%2B15550002222&Body=hello+there&MessageSid=SM1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if seen.Get("Body") != "hello there" {
		t.Fatalf("form Body = %q", seen.Get("Body"))
	}
}
