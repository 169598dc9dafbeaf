package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskOrderConfirmation is the asynq task type for order confirmation email.
const TaskOrderConfirmation = "email:order_confirmation"

// OrderConfirmation is the payload of an order confirmation task.
type OrderConfirmation struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
}

// Enqueuer pushes notification tasks onto the queue. A nil Client makes
// every enqueue a no-op so tests and local runs work without Redis.
type Enqueuer struct {
	Client *asynq.Client
}

// OrderConfirmation enqueues an order confirmation email task.
func (e *Enqueuer) OrderConfirmation(ctx context.Context, payload OrderConfirmation) error {
	if e == nil || e.Client == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode order confirmation: %w", err)
	}
	task := asynq.NewTask(TaskOrderConfirmation, data, asynq.MaxRetry(5))
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue order confirmation: %w", err)
	}
	return nil
}

// Worker consumes notification tasks.
type Worker struct {
	Email EmailSender
	Log   zerolog.Logger
}

// Register wires the worker's handlers onto an asynq mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskOrderConfirmation, w.HandleOrderConfirmation)
}

// HandleOrderConfirmation renders and sends the confirmation email.
func (w *Worker) HandleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	var payload OrderConfirmation
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order confirmation: %w", err)
	}
	subject := fmt.Sprintf("Order %s confirmed", payload.OrderID)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order. We charged %s %s and will ship your gear shortly.</p>",
		payload.CustomerName, payload.Currency, payload.Total,
	)
	if err := w.Email.Send(payload.CustomerEmail, subject, html); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	w.Log.Info().
		Str("order_id", payload.OrderID).
		Str("to", payload.CustomerEmail).
		Msg("order confirmation sent")
	return nil
}
