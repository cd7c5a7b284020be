package controllers

import (
	"io"
	"net/http"

	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
)

// signatureHeader carries the webhook HMAC.
const signatureHeader = "Stripe-Signature"

// PaymentController exposes checkout session creation and the webhook
// receiver.
type PaymentController struct {
	service *services.PaymentService
}

// NewPaymentController creates a PaymentController.
func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

func (c *PaymentController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orderID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	payment, url, err := c.service.CreateCheckout(userID, orderID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"payment":      payment,
		"checkout_url": url,
	})
}

// Webhook receives gateway events. The signature is verified against the
// raw body before anything is parsed.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", "could not read body")
		return
	}

	if err := c.service.VerifySignature(payload, r.Header.Get(signatureHeader)); err != nil {
		response.FromError(w, err)
		return
	}

	if err := c.service.HandleEvent(payload); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "ok", nil)
}
