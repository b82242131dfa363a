package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fitbody/fitbody-backend/internal/config"
	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/payment"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct {
	sessions map[string]*stripe.CheckoutSession
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, p payment.CheckoutParams) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: "cs_new", URL: "https://checkout.stripe.com/pay/cs_new"}, nil
}

func (g *stubGateway) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	s, ok := g.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	return s, nil
}

type stubStore struct {
	mu   sync.Mutex
	rows map[string]*models.Purchase
}

func (s *stubStore) Create(ctx context.Context, purchase *models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[purchase.StripeSessionID]; exists {
		return gorm.ErrDuplicatedKey
	}
	row := *purchase
	s.rows[purchase.StripeSessionID] = &row
	return nil
}

func (s *stubStore) GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *stubStore) GetByEmail(ctx context.Context, email string) ([]models.Purchase, error) {
	return nil, nil
}

func (s *stubStore) GetAll(ctx context.Context) ([]models.Purchase, error) {
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) GetByID(ctx context.Context, id uint) (*models.TrainingPackage, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubDiscounts struct{}

func (stubDiscounts) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubMailer struct {
	err error
}

func (m *stubMailer) SendPackageContentEmail(email, packageName string) error {
	return m.err
}

type stubVerifier struct {
	event stripe.Event
	err   error
}

func (v *stubVerifier) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	if v.err != nil {
		return stripe.Event{}, v.err
	}
	return v.event, nil
}

func testSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            "cs_test_123",
		AmountTotal:   4999,
		Currency:      stripe.CurrencyGBP,
		CustomerEmail: "a@example.com",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      map[string]string{"package_name": "Lean Transformation"},
	}
}

func newTestApp(t *testing.T, store *stubStore, mailer *stubMailer, verifier *stubVerifier) *fiber.App {
	t.Helper()
	gateway := &stubGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_123": testSession(),
	}}
	cfg := &config.Config{FrontendURL: "http://localhost:3000", AutoReconcileEnabled: true}
	svc := service.NewPaymentService(gateway, store, stubCatalog{}, stubDiscounts{}, mailer, zap.NewNop(), cfg)
	h := NewPaymentHandler(svc, verifier, utils.NewValidator(), zap.NewNop())

	app := fiber.New()
	app.Post("/api/payments/reconcile", h.ReconcilePurchase)
	app.Get("/api/payments/checkout-session", h.GetCheckoutSessionDetails)
	app.Post("/api/payments/send-package-email", h.SendPackageEmail)
	app.Post("/api/payments/webhook", h.HandleStripeWebhook)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestReconcileEndpoint(t *testing.T) {
	store := &stubStore{rows: map[string]*models.Purchase{}}
	app := newTestApp(t, store, &stubMailer{}, &stubVerifier{})

	status, body := postJSON(t, app, "/api/payments/reconcile", models.ReconcileRequest{SessionID: "cs_test_123"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	data := body["data"].(map[string]any)
	if data["status"] != models.ReconcileStatusReconciled {
		t.Fatalf("expected reconciled, got %v", data["status"])
	}

	status, body = postJSON(t, app, "/api/payments/reconcile", models.ReconcileRequest{SessionID: "cs_test_123"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", status)
	}
	data = body["data"].(map[string]any)
	if data["status"] != models.ReconcileStatusExists {
		t.Fatalf("expected already_exists, got %v", data["status"])
	}

	if status, _ = postJSON(t, app, "/api/payments/reconcile", models.ReconcileRequest{SessionID: "cs_unknown"}); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", status)
	}

	if status, _ = postJSON(t, app, "/api/payments/reconcile", map[string]string{}); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing session_id, got %d", status)
	}
}

func TestCheckoutSessionDetailsEndpoint(t *testing.T) {
	app := newTestApp(t, &stubStore{rows: map[string]*models.Purchase{}}, &stubMailer{}, &stubVerifier{})

	req := httptest.NewRequest("GET", "/api/payments/checkout-session?session_id=cs_test_123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["payment_status"] != "paid" || data["amount_total"] != float64(4999) {
		t.Fatalf("unexpected summary: %v", data)
	}
	if data["auto_reconcile"] != true {
		t.Fatalf("auto_reconcile flag missing from summary: %v", data)
	}

	req = httptest.NewRequest("GET", "/api/payments/checkout-session", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without session_id, got %d", resp.StatusCode)
	}
}

// An email delivery failure reports 502 on its own endpoint while the payment
// summary stays healthy.
func TestSendPackageEmailFailureIsIsolated(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp down")}
	app := newTestApp(t, &stubStore{rows: map[string]*models.Purchase{}}, mailer, &stubVerifier{})

	status, _ := postJSON(t, app, "/api/payments/send-package-email", models.SendPackageEmailRequest{
		SessionID:     "cs_test_123",
		CustomerEmail: "a@example.com",
	})
	if status != fiber.StatusBadGateway {
		t.Fatalf("expected 502 for delivery failure, got %d", status)
	}

	req := httptest.NewRequest("GET", "/api/payments/checkout-session?session_id=cs_test_123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("summary must survive email failure, got %d", resp.StatusCode)
	}
}

func TestSendPackageEmailRejectsMismatch(t *testing.T) {
	app := newTestApp(t, &stubStore{rows: map[string]*models.Purchase{}}, &stubMailer{}, &stubVerifier{})

	status, _ := postJSON(t, app, "/api/payments/send-package-email", models.SendPackageEmailRequest{
		SessionID:     "cs_test_123",
		CustomerEmail: "attacker@example.com",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched email, got %d", status)
	}
}

func TestWebhookEndpoint(t *testing.T) {
	t.Run("bad signature has no side effects", func(t *testing.T) {
		store := &stubStore{rows: map[string]*models.Purchase{}}
		app := newTestApp(t, store, &stubMailer{}, &stubVerifier{err: errors.New("signature mismatch")})

		req := httptest.NewRequest("POST", "/api/payments/webhook", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if len(store.rows) != 0 {
			t.Fatalf("rejected webhook wrote %d rows", len(store.rows))
		}
	})

	t.Run("verified completed event inserts the purchase", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]string{"id": "cs_test_123"})
		verifier := &stubVerifier{event: stripe.Event{
			Type: "checkout.session.completed",
			Data: &stripe.EventData{Raw: raw},
		}}
		store := &stubStore{rows: map[string]*models.Purchase{}}
		app := newTestApp(t, store, &stubMailer{}, verifier)

		req := httptest.NewRequest("POST", "/api/payments/webhook", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Stripe-Signature", "t=1,v1=valid")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(store.rows) != 1 {
			t.Fatalf("expected 1 purchase row, got %d", len(store.rows))
		}
	})
}
