package handler

import (
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkarras/sms-bridge/internal/domain"
)

// Matches sip:+15551234567@domain and tel:+15551234567, with or without
// the leading "+".
var sipURIPattern = regexp.MustCompile(`(?:sip:|tel:)\+?(\d+)`)

// SipMessage godoc
// @Summary Receive a SIP MESSAGE directly
// @Description Accepts a SIP MESSAGE-style request and sends it out over cellular
// @Tags Webhooks
// @Param From header string false "SIP From URI"
// @Param To header string true "SIP To URI"
// @Success 200
// @Failure 400 {object} map[string]string
// @Failure 500
// @Router /sip/message [post]
func (h *Handler) sipMessage(c *gin.Context) {
	toURI := c.GetHeader("To")
	match := sipURIPattern.FindStringSubmatch(toURI)
	if match == nil {
		err := &domain.MissingFieldError{Field: "To"}
		h.logger.Error("rejecting sip message", "error", err.Error(), "to", toURI)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid To address"})
		return
	}
	to := "+" + match[1]

	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	var body string
	switch {
	case mediaType == "text/plain":
		raw, err := c.GetRawData()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		body = string(raw)
	case strings.HasPrefix(mediaType, "multipart/"):
		// The multipart envelope is recognized but not decoded on this
		// path; a placeholder body goes out as SMS.
		body = "MMS message"
	default:
		// Unknown content type: acknowledge without dispatching,
		// mirroring SIP 200 OK semantics.
		c.Status(http.StatusOK)
		return
	}

	if _, _, err := h.router.SendViaCellular(c.Request.Context(), to, body, nil); err != nil {
		h.logger.Error("failed to send sip message via cellular", "error", err.Error())
		c.Status(http.StatusInternalServerError)
		return
	}

	// Bare SIP-style 200 OK, no JSON body.
	c.Status(http.StatusOK)
}
