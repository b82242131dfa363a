package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitbody/fitbody-backend/internal/config"
	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/pkg/payment"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPackageNotFound = errors.New("training package not found")
	ErrDiscountInvalid = errors.New("discount code is not valid")
	ErrSessionNotFound = errors.New("payment session not found")
	ErrPaymentProvider = errors.New("payment provider unavailable")
	ErrPurchaseStore   = errors.New("purchase store unavailable")
	ErrEmailMismatch   = errors.New("email does not match payment session")
	ErrEmailDelivery   = errors.New("package content email failed")
)

// Store and provider calls are bounded so a stalled dependency surfaces as a
// retryable error instead of a hung request.
const opTimeout = 15 * time.Second

type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, p payment.CheckoutParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type PurchaseStore interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error)
	GetByEmail(ctx context.Context, email string) ([]models.Purchase, error)
	GetAll(ctx context.Context) ([]models.Purchase, error)
}

type PackageCatalog interface {
	GetByID(ctx context.Context, id uint) (*models.TrainingPackage, error)
}

type DiscountStore interface {
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

type ContentMailer interface {
	SendPackageContentEmail(email, packageName string) error
}

type PaymentService struct {
	gateway       CheckoutGateway
	purchases     PurchaseStore
	packages      PackageCatalog
	discounts     DiscountStore
	mailer        ContentMailer
	logger        *zap.Logger
	frontendURL   string
	autoReconcile bool
}

func NewPaymentService(
	gateway CheckoutGateway,
	purchases PurchaseStore,
	packages PackageCatalog,
	discounts DiscountStore,
	mailer ContentMailer,
	logger *zap.Logger,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		gateway:       gateway,
		purchases:     purchases,
		packages:      packages,
		discounts:     discounts,
		mailer:        mailer,
		logger:        logger,
		frontendURL:   cfg.FrontendURL,
		autoReconcile: cfg.AutoReconcileEnabled,
	}
}

// CreateCheckoutSession prices the cart from the package catalog, applies an
// optional discount code and opens a Stripe hosted checkout. Nothing is
// written locally: the purchase record is only created at reconciliation,
// after Stripe confirms payment.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, customerEmail string, req models.CheckoutRequest) (*models.CheckoutSessionResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	percentOff, err := s.resolveDiscount(ctx, req.DiscountCode)
	if err != nil {
		return nil, err
	}

	lineItems := make([]payment.CheckoutLineItem, 0, len(req.Items))
	packageNames := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		pkg, err := s.packages.GetByID(ctx, item.PackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPackageNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrPurchaseStore, err)
		}
		if !pkg.IsActive {
			return nil, ErrPackageNotFound
		}

		lineItems = append(lineItems, payment.CheckoutLineItem{
			Name:       pkg.Name,
			UnitAmount: applyDiscount(pkg.Price, percentOff),
			Currency:   pkg.Currency,
			Quantity:   item.Quantity,
		})
		packageNames = append(packageNames, pkg.Name)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		CustomerEmail: customerEmail,
		LineItems:     lineItems,
		Metadata: map[string]string{
			"package_name": strings.Join(packageNames, ", "),
		},
		SuccessURL: s.frontendURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/checkout/cancel",
	})
	if err != nil {
		s.logger.Error("stripe checkout session create failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Strings("packages", packageNames),
	)

	return &models.CheckoutSessionResponse{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func (s *PaymentService) resolveDiscount(ctx context.Context, code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	discount, err := s.discounts.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrDiscountInvalid
		}
		return 0, fmt.Errorf("%w: %v", ErrPurchaseStore, err)
	}
	if !discount.IsActive {
		return 0, ErrDiscountInvalid
	}
	if discount.ExpiresAt != nil && discount.ExpiresAt.Before(time.Now()) {
		return 0, ErrDiscountInvalid
	}
	return discount.PercentOff, nil
}

// ValidateDiscount resolves a discount code for cart display.
func (s *PaymentService) ValidateDiscount(ctx context.Context, code string) (*models.DiscountValidationResponse, error) {
	percentOff, err := s.resolveDiscount(ctx, code)
	if err != nil {
		return nil, err
	}
	if percentOff == 0 {
		return nil, ErrDiscountInvalid
	}
	return &models.DiscountValidationResponse{
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		PercentOff: percentOff,
	}, nil
}

func applyDiscount(amount int64, percentOff int) int64 {
	if percentOff <= 0 {
		return amount
	}
	return amount - amount*int64(percentOff)/100
}

// Reconcile ensures exactly one purchase row exists for the given checkout
// session, using Stripe as the source of truth for every field. It is safe
// to call any number of times, concurrently or sequentially: the webhook and
// the confirmation page both funnel through here.
func (s *PaymentService) Reconcile(ctx context.Context, sessionID string) (*models.ReconcileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	existing, err := s.purchases.GetBySessionID(ctx, sessionID)
	if err == nil {
		return &models.ReconcileResult{
			Status:     models.ReconcileStatusExists,
			PurchaseID: existing.ID,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPurchaseStore, err)
	}

	purchase := purchaseFromSession(session)
	if err := s.purchases.Create(ctx, purchase); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race to a concurrent caller. The winner's row
			// is the purchase; this is not an error.
			winner, qerr := s.purchases.GetBySessionID(ctx, sessionID)
			if qerr != nil {
				return nil, fmt.Errorf("%w: %v", ErrPurchaseStore, qerr)
			}
			return &models.ReconcileResult{
				Status:     models.ReconcileStatusExists,
				PurchaseID: winner.ID,
			}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPurchaseStore, err)
	}

	s.logger.Info("purchase reconciled",
		zap.String("session_id", sessionID),
		zap.String("purchase_id", purchase.ID),
		zap.String("status", purchase.Status),
	)

	return &models.ReconcileResult{
		Status:     models.ReconcileStatusReconciled,
		PurchaseID: purchase.ID,
		Inserted:   []string{"purchase"},
	}, nil
}

func purchaseFromSession(session *stripe.CheckoutSession) *models.Purchase {
	purchase := &models.Purchase{
		ID:              uuid.NewString(),
		UserEmail:       session.CustomerEmail,
		PackageName:     session.Metadata["package_name"],
		Amount:          session.AmountTotal,
		Currency:        string(session.Currency),
		Status:          purchaseStatus(session.PaymentStatus),
		StripeSessionID: session.ID,
	}
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			purchase.UserEmail = session.CustomerDetails.Email
		}
		purchase.UserName = session.CustomerDetails.Name
	}
	if session.PaymentIntent != nil {
		purchase.StripePaymentIntentID = session.PaymentIntent.ID
	}
	return purchase
}

// purchaseStatus mirrors Stripe's payment status. An unpaid session is
// recorded as pending, never as a completed purchase.
func purchaseStatus(status stripe.CheckoutSessionPaymentStatus) string {
	switch status {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return models.PurchaseStatusCompleted
	default:
		return models.PurchaseStatusPending
	}
}

// GetSessionDetails returns the confirmation page display summary, fetched
// straight from Stripe, together with the auto-reconcile switch so the page
// knows whether to trigger reconciliation itself.
func (s *PaymentService) GetSessionDetails(ctx context.Context, sessionID string) (*models.CheckoutSessionDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	details := &models.CheckoutSessionDetails{
		SessionID:     session.ID,
		PaymentStatus: string(session.PaymentStatus),
		CustomerEmail: session.CustomerEmail,
		PackageName:   session.Metadata["package_name"],
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		AutoReconcile: s.autoReconcile,
	}
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			details.CustomerEmail = session.CustomerDetails.Email
		}
		details.CustomerName = session.CustomerDetails.Name
	}
	return details, nil
}

// SendPackageContentEmail delivers programme content for a paid session.
// The target email must match what Stripe has on record for the session, so
// content cannot be redirected to an arbitrary address. Failures here never
// touch the purchase record.
func (s *PaymentService) SendPackageContentEmail(ctx context.Context, req models.SendPackageEmailRequest) (*models.SendPackageEmailResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	session, err := s.gateway.GetCheckoutSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	sessionEmail := session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		sessionEmail = session.CustomerDetails.Email
	}
	if !strings.EqualFold(sessionEmail, req.CustomerEmail) {
		return nil, ErrEmailMismatch
	}

	packageName := session.Metadata["package_name"]
	if packageName == "" {
		packageName = "your training programme"
	}

	if err := s.mailer.SendPackageContentEmail(sessionEmail, packageName); err != nil {
		s.logger.Warn("package content email failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return &models.SendPackageEmailResponse{
		Sent:    true,
		Message: "Package content sent to " + sessionEmail,
	}, nil
}

// HandleStripeWebhook reacts to verified Stripe events. Delivery is
// at-least-once, so everything funnels into the idempotent Reconcile.
func (s *PaymentService) HandleStripeWebhook(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to decode checkout session event: %w", err)
		}

		result, err := s.Reconcile(ctx, session.ID)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				// Stripe notified us about a session it no longer reports.
				// Retrying cannot help, so acknowledge and move on.
				s.logger.Warn("webhook session unknown upstream, skipping",
					zap.String("session_id", session.ID),
				)
				return nil
			}
			return err
		}

		s.logger.Info("webhook reconciliation finished",
			zap.String("session_id", session.ID),
			zap.String("result", result.Status),
		)
		return nil

	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *PaymentService) GetPurchaseHistory(ctx context.Context, email string) ([]models.Purchase, error) {
	return s.purchases.GetByEmail(ctx, email)
}

func (s *PaymentService) GetAllPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.purchases.GetAll(ctx)
}
