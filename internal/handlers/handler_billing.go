package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/dto"
	"github.com/skyrates/skyrates_backend/internal/middleware"
)

// webhookPayloadLimit bounds the accepted Stripe webhook body size.
const webhookPayloadLimit = 64 * 1024

// billingHandler handles HTTP requests for subscription billing.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
	userService    portssvc.UserSvcFacade
}

// newBillingHandler creates a new billingHandler.
func newBillingHandler(bs portssvc.BillingSvcFacade, us portssvc.UserSvcFacade) *billingHandler {
	return &billingHandler{
		billingService: bs,
		userService:    us,
	}
}

// registerBillingRoutes registers the authenticated billing routes.
func registerBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade, userService portssvc.UserSvcFacade) {
	h := newBillingHandler(billingService, userService)

	billing := rg.Group("/billing")
	{
		billing.GET("/prices", h.listPrices)
		billing.POST("/checkout", h.createCheckout)
	}
}

// registerBillingWebhookRoutes registers the unauthenticated webhook endpoint.
// Stripe authenticates deliveries with its own signature header.
func registerBillingWebhookRoutes(r *gin.Engine, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService, nil)
	r.POST("/webhooks/stripe", h.handleWebhook)
}

// listPrices godoc
// @Summary List subscription prices
// @Description Returns the active recurring prices available for upgrade.
// @Tags billing
// @Produce json
// @Success 200 {array} dto.PriceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Billing provider unavailable"
// @Security BearerAuth
// @Router /billing/prices [get]
func (h *billingHandler) listPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	prices, err := h.billingService.ListPrices(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list prices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Billing provider is unavailable"})
		return
	}

	c.JSON(http.StatusOK, prices)
}

// createCheckout godoc
// @Summary Start a checkout session
// @Description Creates a Stripe Checkout session for the selected price and returns the redirect URL.
// @Tags billing
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Price selection"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Billing provider unavailable"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *billingHandler) createCheckout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to load user for checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), user, req.PriceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create checkout session", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Billing provider is unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// handleWebhook godoc
// @Summary Stripe webhook receiver
// @Description Verifies the Stripe signature and applies subscription lifecycle events.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 "Event processed"
// @Failure 400 {object} map[string]string "Invalid payload or signature"
// @Router /webhooks/stripe [post]
func (h *billingHandler) handleWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookPayloadLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.billingService.HandleWebhookEvent(c.Request.Context(), payload, signature); err != nil {
		logger.Warn("Rejected webhook delivery", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook delivery"})
		return
	}

	c.Status(http.StatusOK)
}
