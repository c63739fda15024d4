package handlers

import (
	"errors"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/payment"
	"symptom-checker-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentHandler handles checkout and subscription status.
type PaymentHandler struct {
	DB       *gorm.DB
	Payments *payment.Service
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(db *gorm.DB, payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{DB: db, Payments: payments}
}

// InitializeRequest represents the request body for starting a checkout.
type InitializeRequest struct {
	Plan string `json:"plan" binding:"required,oneof=pay_per_chat unlimited"`
}

// Initialize starts a hosted checkout and returns the redirect URL.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req InitializeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load user: "+err.Error())
		return
	}

	result, err := h.Payments.InitializeCheckout(c.Request.Context(), user, models.SubscriptionType(req.Plan))
	if err != nil {
		if errors.Is(err, payment.ErrUnknownPlan) {
			utils.BadRequest(c, "Unknown subscription plan")
			return
		}
		utils.InternalServerError(c, "Failed to initialize checkout: "+err.Error())
		return
	}

	utils.Success(c, "Checkout initialized", result)
}

// Verify confirms a transaction by reference and activates the subscription.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		utils.BadRequest(c, "Transaction reference is required")
		return
	}

	sub, err := h.Payments.CompleteCheckout(c.Request.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotSuccessful):
			utils.PaymentRequired(c, "Payment was not successful")
		case errors.Is(err, payment.ErrUnknownPlan):
			utils.BadRequest(c, "Transaction names an unknown plan")
		default:
			utils.InternalServerError(c, "Failed to verify payment: "+err.Error())
		}
		return
	}

	utils.Success(c, "Subscription activated", sub)
}

// Subscription returns the user's current subscription, if any.
func (h *PaymentHandler) Subscription(c *gin.Context) {
	userID, _ := c.Get("userID")

	var sub models.ChatSubscription
	err := h.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Success(c, "No active subscription", nil)
		} else {
			utils.InternalServerError(c, "Failed to fetch subscription: "+err.Error())
		}
		return
	}

	utils.Success(c, "Subscription fetched successfully", sub)
}
