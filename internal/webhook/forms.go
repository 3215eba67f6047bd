package webhook

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"smarttext/internal/directory"
	"smarttext/internal/events"
)

// VoiceStatusForm is the Twilio voice status callback payload.
type VoiceStatusForm struct {
	CallSid    string
	From       string
	To         string
	CallStatus events.CallStatus

	// DurationSeconds is CallDuration; Twilio only sends it on completed calls.
	DurationSeconds int
}

// InboundSMSForm is the Twilio inbound-message webhook payload.
type InboundSMSForm struct {
	MessageSid string
	From       string
	To         string
	Body       string
}

func parseVoiceStatus(form url.Values) (VoiceStatusForm, error) {
	f := VoiceStatusForm{
		CallSid:    strings.TrimSpace(form.Get("CallSid")),
		CallStatus: events.CallStatus(strings.TrimSpace(form.Get("CallStatus"))),
	}
	var err error
	if f.From, err = requiredNumber(form, "From"); err != nil {
		return VoiceStatusForm{}, err
	}
	if f.To, err = requiredNumber(form, "To"); err != nil {
		return VoiceStatusForm{}, err
	}
	if f.CallSid == "" {
		return VoiceStatusForm{}, fmt.Errorf("missing CallSid")
	}
	if f.CallStatus == "" {
		return VoiceStatusForm{}, fmt.Errorf("missing CallStatus")
	}

	if v := strings.TrimSpace(form.Get("CallDuration")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return VoiceStatusForm{}, fmt.Errorf("invalid CallDuration %q", v)
		}
		f.DurationSeconds = n
	}
	return f, nil
}

func parseInboundSMS(form url.Values) (InboundSMSForm, error) {
	f := InboundSMSForm{
		MessageSid: strings.TrimSpace(form.Get("MessageSid")),
		Body:       strings.TrimSpace(form.Get("Body")),
	}
	var err error
	if f.From, err = requiredNumber(form, "From"); err != nil {
		return InboundSMSForm{}, err
	}
	if f.To, err = requiredNumber(form, "To"); err != nil {
		return InboundSMSForm{}, err
	}
	if f.MessageSid == "" {
		return InboundSMSForm{}, fmt.Errorf("missing MessageSid")
	}
	return f, nil
}

func requiredNumber(form url.Values, key string) (string, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	e164 := directory.NormalizeE164(raw)
	if e164 == "" {
		return "", fmt.Errorf("invalid %s %q", key, raw)
	}
	return e164, nil
}

// encodeRaw flattens the form into JSON for the audit column.
func encodeRaw(form url.Values) string {
	flat := make(map[string]string, len(form))
	for k := range form {
		flat[k] = form.Get(k)
	}
	b, err := json.Marshal(flat)
	if err != nil {
		return ""
	}
	return string(b)
}
