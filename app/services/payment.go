package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/logger"
	"github.com/ruberanziza1/alx-project-nexus/pkg/metrics"
	"gorm.io/gorm"
)

// Gateway creates hosted checkout sessions. The webhook path does not go
// through it; events arrive signed and are verified locally.
type Gateway interface {
	CreateSession(orderNumber string, amountCents int64, currency string) (sessionID, url string, err error)
}

// HostedGateway is a Stripe-shaped gateway that mints session identifiers
// locally. It stands in wherever no real gateway credentials are set.
type HostedGateway struct {
	BaseURL string
}

// CreateSession returns a new checkout session id and redirect URL.
func (g *HostedGateway) CreateSession(orderNumber string, amountCents int64, currency string) (string, string, error) {
	id := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	base := g.BaseURL
	if base == "" {
		base = "https://checkout.stripe.com/c/pay"
	}
	return id, fmt.Sprintf("%s/%s", base, id), nil
}

// webhookTolerance bounds how old a signed event may be before it is
// rejected as a replay.
const webhookTolerance = 5 * time.Minute

// PaymentService creates checkout sessions and applies verified webhook
// events to payments and their orders.
type PaymentService struct {
	db  *gorm.DB
	gw  Gateway
	cfg config.Payments
	now func() time.Time
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(db *gorm.DB, gw Gateway, cfg config.Payments) *PaymentService {
	return &PaymentService{db: db, gw: gw, cfg: cfg, now: time.Now}
}

// CreateCheckout opens (or re-opens) a checkout session for a pending
// order. An order has at most one payment row; retrying a failed checkout
// reuses it with a fresh session.
func (s *PaymentService) CreateCheckout(userID, orderID uint) (*models.Payment, string, error) {
	var order models.Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("payment: load order: %w", err)
	}

	if order.Status != models.OrderPending {
		return nil, "", apperr.Conflict("order is not awaiting payment")
	}

	var payment models.Payment
	err = s.db.Where("order_id = ?", order.ID).First(&payment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.Payment{
			OrderID:     order.ID,
			AmountCents: order.TotalCents,
			Currency:    strings.ToLower(s.cfg.Currency),
			Status:      models.PaymentPending,
		}
	case err != nil:
		return nil, "", fmt.Errorf("payment: load: %w", err)
	default:
		if payment.Status == models.PaymentPaid {
			return nil, "", apperr.Conflict("order is already paid")
		}
	}

	sessionID, url, err := s.gw.CreateSession(order.Number, order.TotalCents, payment.Currency)
	if err != nil {
		return nil, "", fmt.Errorf("payment: create session: %w", err)
	}

	payment.SessionID = sessionID
	payment.Status = models.PaymentPending
	if err := s.db.Save(&payment).Error; err != nil {
		return nil, "", fmt.Errorf("payment: save: %w", err)
	}

	return &payment, url, nil
}

// VerifySignature checks a "t=<unix>,v1=<hex hmac>" header against the
// webhook secret. The signed message is "<t>.<payload>"; events older than
// the tolerance are rejected.
func (s *PaymentService) VerifySignature(payload []byte, header string) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		metrics.PaymentsTotal.WithLabelValues("bad_signature").Inc()
		return apperr.Auth("malformed webhook signature")
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("bad_signature").Inc()
		return apperr.Auth("malformed webhook signature")
	}
	age := s.now().Sub(time.Unix(unix, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		metrics.PaymentsTotal.WithLabelValues("bad_signature").Inc()
		return apperr.Auth("webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.WebhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		metrics.PaymentsTotal.WithLabelValues("bad_signature").Inc()
		return apperr.Auth("webhook signature mismatch")
	}
	return nil
}

// webhookEvent is the subset of the gateway event body we act on.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// HandleEvent applies a verified webhook event. A completed checkout marks
// the payment paid and moves the order to processing; an expired or failed
// one marks the payment failed. Unknown event types are acknowledged and
// ignored.
func (s *PaymentService) HandleEvent(payload []byte) error {
	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return apperr.New(apperr.KindValidation, "malformed webhook payload")
	}

	switch ev.Type {
	case "checkout.session.completed":
		return s.apply(ev.Data.Object.ID, models.PaymentPaid)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		return s.apply(ev.Data.Object.ID, models.PaymentFailed)
	default:
		logger.Debug("payment: ignoring webhook event", "type", ev.Type)
		metrics.PaymentsTotal.WithLabelValues("ignored").Inc()
		return nil
	}
}

func (s *PaymentService) apply(sessionID string, status models.PaymentStatus) error {
	if sessionID == "" {
		return apperr.New(apperr.KindValidation, "webhook event missing session id")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := lockForUpdate(tx).Where("session_id = ?", sessionID).First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no payment for session %s", sessionID)
		}
		if err != nil {
			return fmt.Errorf("payment: load by session: %w", err)
		}

		// Events can be redelivered; applying the same state twice is a
		// no-op, and a paid payment never downgrades to failed.
		if payment.Status == status || payment.Status == models.PaymentPaid {
			return nil
		}

		if err := tx.Model(&payment).Update("status", status).Error; err != nil {
			return fmt.Errorf("payment: update status: %w", err)
		}

		if status == models.PaymentPaid {
			var order models.Order
			if err := lockForUpdate(tx).First(&order, payment.OrderID).Error; err != nil {
				return fmt.Errorf("payment: load order: %w", err)
			}
			if order.Status.CanTransition(models.OrderProcessing) {
				return tx.Model(&order).Update("status", models.OrderProcessing).Error
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	switch status {
	case models.PaymentPaid:
		metrics.PaymentsTotal.WithLabelValues("paid").Inc()
	case models.PaymentFailed:
		metrics.PaymentsTotal.WithLabelValues("failed").Inc()
	}
	return nil
}
