package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/config"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	if !mg.Configured() {
		log.Fatal("Mailgun not configured")
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	dead := helpers.DeadQueue(cfg.RabbitMQEmailQueue)
	if _, err := ch.QueueDeclare(dead, true, false, false, false, nil); err != nil {
		log.Fatalf("declare %s: %v", dead, err)
	}

	// bounded prefetch for fair dispatch between workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	worker := mailer.NewWorker(mg)
	policy := mailer.RetryPolicy{
		MaxAttempts: cfg.EmailMaxAttempts,
		BaseDelay:   cfg.EmailRetryDelay,
		MaxDelay:    cfg.EmailRetryMaxWait,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			outcome, err := worker.Handle(ctx, msg.Body)
			fields := logrus.Fields{"delivery_tag": msg.DeliveryTag, "redelivered": msg.Redelivered}
			switch outcome {
			case mailer.Ack:
				_ = msg.Ack(false)
				helpers.LogInfo(logger, "email sent", fields)
			case mailer.Requeue:
				retry(ctx, ch, cfg.RabbitMQEmailQueue, policy, msg, err, fields, logger)
			default:
				helpers.LogError(logger, "email dropped", err, fields)
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// retry puts a failed delivery back on the queue after a backoff, or parks
// it on the dead queue once the policy gives up. The original is acked only
// after its copy is published.
func retry(ctx context.Context, ch *amqp.Channel, queue string, policy mailer.RetryPolicy, msg amqp.Delivery, sendErr error, fields logrus.Fields, logger *logrus.Logger) {
	failed := helpers.Attempts(msg.Headers) + 1
	fields["attempt"] = failed

	delay, ok := policy.Next(failed)
	target := queue
	if ok {
		fields["retry_in"] = delay.String()
		helpers.LogError(logger, "email delivery failed, retrying", sendErr, fields)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			_ = msg.Nack(false, true)
			return
		}
	} else {
		target = helpers.DeadQueue(queue)
		helpers.LogError(logger, "email delivery failed, giving up", sendErr, fields)
	}

	if err := helpers.Republish(ctx, ch, target, msg, failed); err != nil {
		helpers.LogError(logger, "republish failed, requeued", err, fields)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
