package models

type CartItem struct {
	PackageID uint  `json:"package_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Items         []CartItem `json:"items" validate:"required,min=1,dive"`
	DiscountCode  string     `json:"discount_code"`
	CustomerEmail string     `json:"customer_email" validate:"omitempty,email"`
}

type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

const (
	ReconcileStatusReconciled = "reconciled"
	ReconcileStatusExists     = "already_exists"
)

type ReconcileRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ReconcileResult is the tagged outcome of a reconcile call. Status is
// either ReconcileStatusReconciled (this call inserted the purchase) or
// ReconcileStatusExists (someone else already did).
type ReconcileResult struct {
	Status     string   `json:"status"`
	PurchaseID string   `json:"purchase_id"`
	Inserted   []string `json:"inserted,omitempty"`
}

// CheckoutSessionDetails is the display summary for the confirmation page,
// fetched straight from Stripe. AutoReconcile reflects server configuration
// and tells the page whether to trigger reconciliation itself.
type CheckoutSessionDetails struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name,omitempty"`
	PackageName   string `json:"package_name,omitempty"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	AutoReconcile bool   `json:"auto_reconcile"`
}

type SendPackageEmailRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
}

type SendPackageEmailResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}
