package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer"
)

const (
	sendTimeout = 15 * time.Second
	consumerTag = "email-worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	worker := &mailer.Worker{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		AppName: cfg.AppName,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			consume(ctx, logger, worker, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down email worker")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// consume acks sent mail, drops permanently bad jobs and requeues the rest.
func consume(ctx context.Context, logger *logrus.Logger, w *mailer.Worker, msg amqp.Delivery) {
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := w.Handle(c, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, mailer.ErrBadJob):
		helpers.LogError(logger, "dropping email job", err, logrus.Fields{"delivery_tag": msg.DeliveryTag})
		_ = msg.Nack(false, false)
	default:
		helpers.LogError(logger, "email send failed, requeueing", err, logrus.Fields{"delivery_tag": msg.DeliveryTag})
		_ = msg.Nack(false, true)
	}
}
