// Package notifier delivers transactional emails off the request path.
// Events are enqueued onto a buffered channel and drained by a worker
// goroutine; delivery failures are logged and swallowed so a slow or dead
// SMTP server can never fail an order operation.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	TypeOrderRequest     = "order_request"     // buyer: transaction id received
	TypeNewOrder         = "new_order"         // admin: a new order awaits verification
	TypePaymentConfirmed = "payment_confirmed" // buyer: admin verified the payment
)

type Event struct {
	Type string
	To   string
	Data map[string]interface{}
}

type eventConfig struct {
	subject string
	body    string
}

var eventConfigs = map[string]eventConfig{
	TypeOrderRequest: {
		subject: "We received your order {{.orderNumber}}",
		body: `<p>Thank you for shopping with Miraj Candles!</p>
<p>We received your payment request for order <b>{{.orderNumber}}</b>
(total &#8377;{{.amount}}). Your transaction id is being verified and we
will confirm your order shortly.</p>`,
	},
	TypeNewOrder: {
		subject: "New order {{.orderNumber}} awaiting verification",
		body: `<p>A new UPI order <b>{{.orderNumber}}</b> for
&#8377;{{.amount}} was submitted and is awaiting payment verification.</p>`,
	},
	TypePaymentConfirmed: {
		subject: "Payment confirmed for order {{.orderNumber}}",
		body: `<p>Your payment for order <b>{{.orderNumber}}</b> is
confirmed and the order has shipped.</p>
{{if .trackingLink}}<p>Track it here: <a href="{{.trackingLink}}">{{.trackingLink}}</a></p>{{end}}`,
	},
}

const sendTimeout = 15 * time.Second

type Service struct {
	events    chan Event
	sender    EmailSender
	templates map[string]struct{ subject, body *template.Template }
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// New parses the event templates and starts the delivery worker.
func New(sender EmailSender, logger *zap.Logger, queueSize int) (*Service, error) {
	tmpls := make(map[string]struct{ subject, body *template.Template })
	for eventType, cfg := range eventConfigs {
		subj, err := template.New(eventType + "_subject").Parse(cfg.subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subject template for %s: %w", eventType, err)
		}
		body, err := template.New(eventType + "_body").Parse(cfg.body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse body template for %s: %w", eventType, err)
		}
		tmpls[eventType] = struct{ subject, body *template.Template }{subj, body}
	}

	s := &Service{
		events:    make(chan Event, queueSize),
		sender:    sender,
		templates: tmpls,
		logger:    logger,
	}
	s.wg.Add(1)
	go s.worker()
	return s, nil
}

// Enqueue hands an event to the worker without blocking. When the queue is
// full the event is dropped — notification is best-effort by contract.
func (s *Service) Enqueue(e Event) {
	select {
	case s.events <- e:
	default:
		s.logger.Warn("notification queue full, dropping event",
			zap.String("type", e.Type),
			zap.String("to", e.To),
		)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (s *Service) Close() {
	close(s.events)
	s.wg.Wait()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for e := range s.events {
		s.deliver(e)
	}
}

func (s *Service) deliver(e Event) {
	tmpl, ok := s.templates[e.Type]
	if !ok {
		s.logger.Error("unsupported notification type", zap.String("type", e.Type))
		return
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, e.Data); err != nil {
		s.logger.Error("subject render failed", zap.String("type", e.Type), zap.Error(err))
		return
	}
	if err := tmpl.body.Execute(&body, e.Data); err != nil {
		s.logger.Error("body render failed", zap.String("type", e.Type), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if _, err := s.sender.SendEmail(ctx, e.To, subject.String(), body.String()); err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("type", e.Type),
			zap.String("to", e.To),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("notification sent",
		zap.String("type", e.Type),
		zap.String("to", e.To),
	)
}
