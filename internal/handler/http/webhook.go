package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkarras/sms-bridge/internal/domain"
)

// fossifyWebhookBody is what the cellular app posts. Each logical field has
// an ordered list of accepted aliases, resolved by first match.
type fossifyWebhookBody struct {
	PhoneNumber string   `json:"phoneNumber"`
	From        string   `json:"from"`
	Message     string   `json:"message"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments"`
}

func (b *fossifyWebhookBody) sender() string {
	return domain.FirstNonEmpty(b.PhoneNumber, b.From)
}

func (b *fossifyWebhookBody) text() string {
	return domain.FirstNonEmpty(b.Message, b.Text)
}

// FossifyWebhook godoc
// @Summary Receive SMS/MMS from the cellular side
// @Description Translates a Fossify Messages webhook and forwards it to the SIP relay
// @Tags Webhooks
// @Accept json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /webhook/fossify [post]
func (h *Handler) fossifyWebhook(c *gin.Context) {
	var body fossifyWebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	from := body.sender()
	if from == "" {
		err := &domain.MissingFieldError{Field: "phoneNumber"}
		h.logger.Error("rejecting fossify webhook", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "No phone number"})
		return
	}

	msg := domain.Message{
		From:        from,
		Body:        body.text(),
		Attachments: body.Attachments,
	}

	if err := h.router.DeliverToRelay(c.Request.Context(), msg); err != nil {
		h.logger.Error("failed to deliver to mmsgate", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deliver to mmsgate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}

// linphoneWebhookBody is what mmsgate posts when the softphone sends a
// message. Media entries may be base64 payloads or URLs to fetch.
type linphoneWebhookBody struct {
	To          string   `json:"to"`
	Dst         string   `json:"dst"`
	Destination string   `json:"destination"`
	Message     string   `json:"message"`
	Text        string   `json:"text"`
	Media       []string `json:"media"`
	Attachments []string `json:"attachments"`
}

func (b *linphoneWebhookBody) destination() string {
	return domain.FirstNonEmpty(b.To, b.Dst, b.Destination)
}

func (b *linphoneWebhookBody) text() string {
	return domain.FirstNonEmpty(b.Message, b.Text)
}

func (b *linphoneWebhookBody) media() []string {
	if len(b.Media) > 0 {
		return b.Media
	}
	return b.Attachments
}

// LinphoneWebhook godoc
// @Summary Receive a message from the SIP side
// @Description Translates an mmsgate webhook and sends it out over cellular
// @Tags Webhooks
// @Accept json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /webhook/linphone [post]
func (h *Handler) linphoneWebhook(c *gin.Context) {
	var body linphoneWebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	to := body.destination()
	if to == "" {
		err := &domain.MissingFieldError{Field: "to"}
		h.logger.Error("rejecting linphone webhook", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "No destination"})
		return
	}

	refs := domain.ClassifyRefs(body.media())
	if _, _, err := h.router.SendViaCellular(c.Request.Context(), to, body.text(), refs); err != nil {
		h.logger.Error("failed to send via cellular", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent_via_cellular"})
}
