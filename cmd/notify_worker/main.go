package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/config"
	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/mailer"
)

// notify_worker consumes credential-issuance jobs from RabbitMQ and sends
// welcome emails via Mailgun. Jobs without a recipient address are logged
// and acknowledged; the prototype issues many credentials with no email.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	q, err := ch.QueueDeclare(cfg.RabbitMQNotifyQueue, true, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	sendEnabled := cfg.NotifySendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""
	if !sendEnabled {
		logger.Warn("mailgun not configured, jobs will be logged only")
	}

	logger.Infof("notify worker consuming from %q", q.Name)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			var job mailer.NotifyJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Error("bad notify job payload, dropping")
				_ = msg.Nack(false, false)
				continue
			}

			subject, text := composeJob(job)
			if job.To == "" || !sendEnabled {
				helpers.LogInfo(logger, "notify job (log only)", logrus.Fields{
					"kind":    job.Kind,
					"subject": subject,
				})
				_ = msg.Ack(false)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			err := mg.Send(ctx, job.To, subject, text, "")
			cancel()
			if err != nil {
				logger.WithError(err).Error("mailgun send failed, requeueing")
				_ = msg.Nack(false, true)
				continue
			}
			helpers.LogInfo(logger, "notify job sent", logrus.Fields{
				"kind": job.Kind,
				"to":   job.To,
			})
			_ = msg.Ack(false)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down notify worker")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
	logger.Info("notify worker exited")
}

// composeJob fills in subject and body for well-known job kinds when the
// publisher did not set them explicitly.
func composeJob(job mailer.NotifyJob) (subject, text string) {
	subject, text = job.Subject, job.Text
	if subject != "" && text != "" {
		return subject, text
	}
	switch job.Kind {
	case "merchant_welcome":
		if subject == "" {
			subject = "Welcome to Bharosa"
		}
		if text == "" {
			text = fmt.Sprintf(
				"Your merchant profile is live.\n\nMerchant ID: %v\nReference: %v\n\nShare your reference with customers to collect ratings.",
				job.Data["merchant_id"], job.Data["reference"],
			)
		}
	case "customer_welcome":
		if subject == "" {
			subject = "Welcome to Bharosa"
		}
		if text == "" {
			text = fmt.Sprintf(
				"Your customer profile is live.\n\nCustomer ID: %v\n\nUse it to sign in and rate merchants you visit.",
				job.Data["customer_id"],
			)
		}
	default:
		if subject == "" {
			subject = "Bharosa notification"
		}
	}
	return subject, text
}
