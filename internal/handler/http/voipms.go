package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/mkarras/sms-bridge/internal/domain"
)

// The real provider caps MMS media at three numbered slots.
const maxMediaSlots = 3

// VoipmsAPI godoc
// @Summary VoIP.ms API emulation
// @Description Accepts the provider's sendSMS/sendMMS vocabulary and routes the message over cellular instead. Response field names and literals are a byte-level compatibility contract with clients of the real provider.
// @Tags Emulation
// @Param method query string true "Provider method (sendSMS or sendMMS)"
// @Param dst query string false "Destination number"
// @Param message query string false "Message text"
// @Param media1 query string false "Media URL slot 1"
// @Param media2 query string false "Media URL slot 2"
// @Param media3 query string false "Media URL slot 3"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /voipms/api [post]
func (h *Handler) voipmsAPI(c *gin.Context) {
	method := h.param(c, "method")
	if method == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Missing method parameter"})
		return
	}

	h.logger.Info("voipms api proxy called", "method", method)

	switch method {
	case "sendSMS":
		h.voipmsSendSMS(c)
	case "sendMMS":
		h.voipmsSendMMS(c)
	default:
		err := &domain.UnsupportedMethodError{Method: method}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
	}
}

func (h *Handler) voipmsSendSMS(c *gin.Context) {
	dst := h.param(c, "dst")
	message := h.param(c, "message")
	if dst == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Missing dst or message"})
		return
	}
	dst = domain.NormalizeNumber(dst)

	h.logger.Info("routing sms to fossify", "dst", dst)

	result, _, err := h.router.SendViaCellular(c.Request.Context(), dst, message, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sms": messageID(result)})
}

func (h *Handler) voipmsSendMMS(c *gin.Context) {
	dst := h.param(c, "dst")
	if dst == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Missing dst"})
		return
	}
	message := h.param(c, "message")
	dst = domain.NormalizeNumber(dst)

	// Every present media slot is a remote locator to fetch. Slot identity
	// is not preserved past resolution, only order.
	refs := make([]domain.AttachmentRef, 0, maxMediaSlots)
	for i := 1; i <= maxMediaSlots; i++ {
		if v := h.param(c, fmt.Sprintf("media%d", i)); v != "" {
			refs = append(refs, domain.AttachmentRef{Kind: domain.RefRemote, Value: v})
		}
	}

	result, kind, err := h.router.SendViaCellular(c.Request.Context(), dst, message, refs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	// When every media fetch failed the send was demoted to SMS, and the
	// response key says so.
	key := "mms"
	if kind == domain.KindSMS {
		key = "sms"
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", key: messageID(result)})
}

// param reads a provider parameter from the query string first, then the
// form body, matching the encodings the real provider accepts.
func (h *Handler) param(c *gin.Context, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return c.PostForm(name)
}

// messageID prefers the downstream-assigned identifier and falls back to a
// fresh time-ordered id so callers always receive a usable value.
func messageID(result domain.SendResult) string {
	if result.ID != "" {
		return result.ID
	}
	return xid.New().String()
}
