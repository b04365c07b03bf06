package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

// Worker turns queued job bodies into sent emails.
type Worker struct {
	Deliverer   Deliverer
	SendTimeout time.Duration
}

func NewWorker(d Deliverer) *Worker {
	return &Worker{Deliverer: d, SendTimeout: 15 * time.Second}
}

// Handle processes one message body. Malformed or unrenderable jobs are
// dropped, provider failures are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("bad message: %w", err)
	}
	subject, text, html, err := job.Render()
	if err != nil {
		return Drop, err
	}
	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Deliverer.Send(c, job.To, subject, text, html); err != nil {
		return Requeue, fmt.Errorf("send failed: %w", err)
	}
	return Ack, nil
}
