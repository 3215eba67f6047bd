package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smarttext/pkg/logger"
)

// Handler exposes the Twilio callback endpoints.
type Handler struct {
	Pipeline *Pipeline
	Verifier Verifier
}

// Register mounts the webhook routes on the given group. Signature
// verification runs before any handler.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.Use(h.Verifier.Middleware())
	g.POST("/voice-status", h.VoiceStatus)
	g.POST("/sms-inbound", h.SMSInbound)
}

func (h *Handler) VoiceStatus(c *gin.Context) {
	form := formFrom(c)
	f, err := parseVoiceStatus(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Pipeline.HandleVoiceStatus(c.Request.Context(), f, encodeRaw(form))
	if err != nil {
		logger.From(c.Request.Context()).Error("voice callback failed", "call_sid", f.CallSid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) SMSInbound(c *gin.Context) {
	form := formFrom(c)
	f, err := parseInboundSMS(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Pipeline.HandleInboundSMS(c.Request.Context(), f, encodeRaw(form))
	if err != nil {
		logger.From(c.Request.Context()).Error("inbound sms failed", "message_sid", f.MessageSid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}
