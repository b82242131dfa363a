package handler

import (
	"errors"

	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
)

// WebhookVerifier verifies a raw webhook payload against its signature
// header before any side effect is attempted.
type WebhookVerifier interface {
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}

type PaymentHandler struct {
	paymentService *service.PaymentService
	verifier       WebhookVerifier
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, verifier WebhookVerifier, validator *utils.Validator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		verifier:       verifier,
		validator:      validator,
		logger:         logger,
	}
}

// CreateCheckoutSession opens a Stripe hosted checkout for the posted cart.
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	// Prefer the authenticated identity over anything in the body.
	customerEmail := req.CustomerEmail
	if email, ok := c.Locals("userEmail").(string); ok && email != "" {
		customerEmail = email
	}

	session, err := h.paymentService.CreateCheckoutSession(c.Context(), customerEmail, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrDiscountInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrPackageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Payment provider unavailable, please retry"))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(session, "Checkout session created"))
}

// GetCheckoutSessionDetails returns the payment summary for the confirmation
// page. Reconciliation and email delivery report separately; a failure in
// either never hides this summary.
func (h *PaymentHandler) GetCheckoutSessionDetails(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("session_id is required"))
	}

	details, err := h.paymentService.GetSessionDetails(c.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Payment session not found"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Payment provider unavailable, please retry"))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(details, "Session details retrieved"))
}

// ReconcilePurchase ensures a purchase row exists for the given session.
// Safe to call repeatedly; racing the webhook is expected.
func (h *PaymentHandler) ReconcilePurchase(c *fiber.Ctx) error {
	var req models.ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := h.paymentService.Reconcile(c.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Payment session not found"))
		case errors.Is(err, service.ErrPaymentProvider), errors.Is(err, service.ErrPurchaseStore):
			return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Temporarily unavailable, please retry"))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(result, "Reconciliation finished"))
}

// SendPackageEmail fires the programme content email for a session.
// Independent of reconciliation: an error here never invalidates the order.
func (h *PaymentHandler) SendPackageEmail(c *fiber.Ctx) error {
	var req models.SendPackageEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.paymentService.SendPackageContentEmail(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Payment session not found"))
		case errors.Is(err, service.ErrEmailMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Email does not match the payment session"))
		case errors.Is(err, service.ErrEmailDelivery):
			return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Email delivery failed, please retry"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Payment provider unavailable, please retry"))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(resp, "Package content email sent"))
}

// HandleStripeWebhook verifies and dispatches Stripe events. Non-2xx
// responses make Stripe redeliver, which is exactly what we want for
// transient failures.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := h.verifier.ConstructWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid webhook signature"))
	}

	if err := h.paymentService.HandleStripeWebhook(c.Context(), &event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Webhook processing failed"))
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	email, ok := c.Locals("userEmail").(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	purchases, err := h.paymentService.GetPurchaseHistory(c.Context(), email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(purchases, "Purchase history retrieved"))
}

func (h *PaymentHandler) GetAllPurchases(c *fiber.Ctx) error {
	purchases, err := h.paymentService.GetAllPurchases(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(purchases, "Purchases retrieved"))
}

// ValidateDiscount lets the cart UI check a code before checkout.
func (h *PaymentHandler) ValidateDiscount(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("code is required"))
	}

	discount, err := h.paymentService.ValidateDiscount(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrDiscountInvalid) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Discount code is not valid"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(discount, "Discount code is valid"))
}
