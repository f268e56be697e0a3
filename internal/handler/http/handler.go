package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mkarras/sms-bridge/docs"
	"github.com/mkarras/sms-bridge/internal/domain"
	"github.com/mkarras/sms-bridge/internal/service"
)

type Handler struct {
	router     service.MessageRouter
	secret     string
	fossifyURL string
	mmsgateURL string
	logger     *slog.Logger
	server     *http.Server
}

// @title SMS Bridge API
// @version 1.0
// @description Bridges Fossify Messages (cellular), mmsgate/Linphone (SIP) and the VoIP.ms wire API
// @BasePath /
func NewHTTPHandler(addr, secret, fossifyURL, mmsgateURL string, router service.MessageRouter, logger *slog.Logger) *Handler {
	h := &Handler{
		router:     router,
		secret:     secret,
		fossifyURL: fossifyURL,
		mmsgateURL: mmsgateURL,
		logger:     logger,
	}

	engine := gin.Default()

	// register routes
	engine.POST("/webhook/fossify", h.requireBearer(), h.fossifyWebhook)
	engine.POST("/webhook/linphone", h.requireBearer(), h.linphoneWebhook)
	engine.POST("/sip/message", h.sipMessage)
	engine.GET("/voipms/api", h.voipmsAPI)
	engine.POST("/voipms/api", h.voipmsAPI)
	engine.GET("/health", h.health)
	engine.POST("/test/fossify", h.testFossify)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// create http server
	h.server = &http.Server{
		Addr:    addr,
		Handler: engine.Handler(),
	}

	return h
}

func (h *Handler) Run() error {
	return h.server.ListenAndServe()
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// requireBearer guards the webhook endpoints with the shared secret. The
// header is compared verbatim against "Bearer <secret>". The VoIP.ms
// emulation endpoint stays outside this check on purpose: its caller is an
// unmodified provider client that cannot present a bearer token.
func (h *Handler) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+h.secret {
			h.logger.Warn("unauthorized webhook call", "remote", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
			return
		}
		c.Next()
	}
}

// Health godoc
// @Summary Health check
// @Description Reports bridge liveness and its configured downstreams
// @Tags Diagnostics
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"bridge":      "sms-mms-bridge",
		"fossify_api": h.fossifyURL,
		"mmsgate":     h.mmsgateURL,
	})
}

type testSendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// TestFossify godoc
// @Summary Test the cellular-send connection
// @Description Sends a test SMS straight through the cellular-send API
// @Tags Diagnostics
// @Accept json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]string
// @Router /test/fossify [post]
func (h *Handler) testFossify(c *gin.Context) {
	var req testSendRequest
	_ = c.ShouldBindJSON(&req)
	if req.Phone == "" {
		req.Phone = "+15551234567"
	}
	if req.Message == "" {
		req.Message = "Test from bridge"
	}

	result, _, err := h.router.SendViaCellular(c.Request.Context(), req.Phone, req.Message, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": result})
}
