// Package jobs defines the queued background work: transactional emails
// triggered by auth and order events.
package jobs

import (
	"fmt"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/event"
	"github.com/ruberanziza1/alx-project-nexus/pkg/logger"
	"github.com/ruberanziza1/alx-project-nexus/pkg/mail"
	"github.com/ruberanziza1/alx-project-nexus/pkg/queue"
	"gorm.io/gorm"
)

// OTPEmailJob mails a one-time code to a user.
type OTPEmailJob struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

func (j *OTPEmailJob) Handle() error {
	subject := "Verify your email"
	intro := "Use this code to verify your email address:"
	if j.Purpose == string(models.PurposePasswordReset) {
		subject = "Reset your password"
		intro = "Use this code to reset your password:"
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s</p><h2>%s</h2><p>The code expires shortly. If you did not request it, ignore this email.</p>",
		j.Name, intro, j.Code)

	return mail.To(j.Email).Subject(subject).Body(body).Send()
}

// PasswordChangedJob notifies a user that their password was changed.
type PasswordChangedJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (j *PasswordChangedJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password was just changed. If this was not you, reset your password immediately.</p>",
		j.Name)
	return mail.To(j.Email).Subject("Your password was changed").Body(body).Send()
}

// OrderConfirmationJob is dispatched when an order is placed.
type OrderConfirmationJob struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	OrderNumber string `json:"order_number"`
	TotalCents  int64  `json:"total_cents"`
}

func (j *OrderConfirmationJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your order <strong>%s</strong> for a total of %d.%02d. We will let you know when it ships.</p>",
		j.Name, j.OrderNumber, j.TotalCents/100, j.TotalCents%100)
	return mail.To(j.Email).Subject("Order " + j.OrderNumber + " confirmed").Body(body).Send()
}

// OrderCancelledJob is dispatched when an order is cancelled, by the
// customer or by staff.
type OrderCancelledJob struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	OrderNumber string `json:"order_number"`
}

func (j *OrderCancelledJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> has been cancelled and any reserved items released. If you paid already, the refund follows separately.</p>",
		j.Name, j.OrderNumber)
	return mail.To(j.Email).Subject("Order " + j.OrderNumber + " cancelled").Body(body).Send()
}

// Register makes every job type known to the queue so workers can
// deserialize payloads. Call once at boot.
func Register() {
	queue.Register("*jobs.OTPEmailJob", func() queue.Job { return &OTPEmailJob{} })
	queue.Register("*jobs.PasswordChangedJob", func() queue.Job { return &PasswordChangedJob{} })
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("*jobs.OrderCancelledJob", func() queue.Job { return &OrderCancelledJob{} })
}

// Wire subscribes the email jobs to the domain events that trigger them.
// db is needed to resolve the buyer's address for order confirmations.
func Wire(db *gorm.DB) {
	dispatchOTP := func(payload interface{}) {
		p, ok := payload.(services.OTPRequested)
		if !ok {
			return
		}
		enqueue(&OTPEmailJob{
			Email:   p.Email,
			Name:    p.Name,
			Code:    p.Code,
			Purpose: string(p.Purpose),
		})
	}

	event.Listen(services.EventUserRegistered, dispatchOTP)
	event.Listen(services.EventOTPRequested, dispatchOTP)

	event.Listen(services.EventPasswordChanged, func(payload interface{}) {
		p, ok := payload.(services.PasswordChanged)
		if !ok {
			return
		}
		enqueue(&PasswordChangedJob{Email: p.Email, Name: p.Name})
	})

	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		var user models.User
		if err := db.First(&user, order.UserID).Error; err != nil {
			logger.Error("jobs: resolve order recipient", "order", order.Number, "error", err)
			return
		}
		enqueue(&OrderConfirmationJob{
			Email:       user.Email,
			Name:        user.FullName(),
			OrderNumber: order.Number,
			TotalCents:  order.TotalCents,
		})
	})

	event.Listen(services.EventOrderCancelled, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		var user models.User
		if err := db.First(&user, order.UserID).Error; err != nil {
			logger.Error("jobs: resolve order recipient", "order", order.Number, "error", err)
			return
		}
		enqueue(&OrderCancelledJob{
			Email:       user.Email,
			Name:        user.FullName(),
			OrderNumber: order.Number,
		})
	})
}

func enqueue(job queue.Job) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("jobs: dispatch failed", "job", fmt.Sprintf("%T", job), "error", err)
	}
}
