// Package webhook receives Twilio callbacks and runs the auto-reply pipeline.
//
// Rules:
//   - Verify the provider signature before reading anything else from the request.
//   - Always ack 200 once the delivery is authenticated and parsed; downstream
//     failures are logged, never surfaced to the provider.
package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"smarttext/pkg/logger"
)

const signatureHeader = "X-Twilio-Signature"

// formKey is the gin context key the verified form is stashed under.
const formKey = "webhook.form"

// Verifier validates Twilio webhook signatures.
//
// Twilio signs the exact callback URL it was configured with plus the POST
// parameters sorted by name, HMAC-SHA1 keyed with the account auth token.
// The URL is rebuilt from the configured public base, not from request
// headers: proxies rewrite Host and scheme.
type Verifier struct {
	AuthToken string

	// BaseURL is the public base Twilio was pointed at, e.g.
	// "https://api.example.com". The request path is appended to it.
	BaseURL string

	// Skip disables verification. Local/test only.
	Skip bool
}

// Expected computes the signature for a callback URL and form params.
func (v Verifier) Expected(callbackURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(callbackURL)
	for _, k := range keys {
		for _, val := range params[k] {
			b.WriteString(k)
			b.WriteString(val)
		}
	}

	mac := hmac.New(sha1.New, []byte(v.AuthToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Valid reports whether the provided signature matches. Constant-time.
func (v Verifier) Valid(callbackURL string, params url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	expected := v.Expected(callbackURL, params)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Middleware reads the raw body, verifies the signature, and stashes the
// parsed form for the handler. Rejected deliveries are answered 403 before
// any business lookup or persistence happens.
func (v Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		// Parse the raw bytes directly. Re-serializing the form can reorder
		// or re-encode values and break signature verification.
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
			return
		}

		if !v.Skip {
			callbackURL := strings.TrimSuffix(v.BaseURL, "/") + c.Request.URL.RequestURI()
			sig := c.GetHeader(signatureHeader)
			if !v.Valid(callbackURL, form, sig) {
				logger.From(c.Request.Context()).Warn("webhook signature rejected",
					"path", c.Request.URL.Path, "remote", c.ClientIP())
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
				return
			}
		}

		c.Set(formKey, form)
		c.Next()
	}
}

// formFrom returns the verified form stashed by the middleware.
func formFrom(c *gin.Context) url.Values {
	if v, ok := c.Get(formKey); ok {
		if f, ok := v.(url.Values); ok {
			return f
		}
	}
	return url.Values{}
}
