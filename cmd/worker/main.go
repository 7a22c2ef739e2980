package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/RaiderT63/foodgram/config"
	pginfra "github.com/RaiderT63/foodgram/internal/infrastructure/postgres"
	"github.com/RaiderT63/foodgram/pkg/helpers"
	"github.com/RaiderT63/foodgram/pkg/mailer"
	tpl "github.com/RaiderT63/foodgram/pkg/mailer/templates"
)

// Notification worker: consumes recipe-published events and mails every
// subscriber of the author. Runs separately from the API so publishing a
// recipe never waits on Mailgun.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; notification worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQRecipeQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	subs := pginfra.NewSubscriptionRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQRecipeQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQRecipeQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var evt mailer.RecipePublished
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				logger.WithError(err).Warn("bad message, dropping")
				_ = msg.Nack(false, false)
				continue
			}

			followers, err := subs.ListSubscribers(ctx, evt.AuthorID)
			if err != nil {
				logger.WithError(err).WithField("author_id", evt.AuthorID).Error("list subscribers failed, requeueing")
				_ = msg.Nack(false, true)
				continue
			}

			failed := 0
			for _, f := range followers {
				if f.Email == "" {
					continue
				}
				name := f.FirstName
				if name == "" {
					name = f.Username
				}
				subject, text, html, rerr := tpl.Render(tpl.NewRecipe, tpl.NewRecipeData{
					RecipientName: name,
					AuthorName:    evt.AuthorName,
					RecipeName:    evt.RecipeName,
					RecipeURL:     evt.RecipeURL,
					AppName:       cfg.AppName,
					SentAt:        time.Now().UTC(),
				})
				if rerr != nil {
					logger.WithError(rerr).Error("render failed")
					failed++
					continue
				}
				c, cancel := context.WithTimeout(ctx, 15*time.Second)
				if sErr := mg.Send(c, f.Email, subject, text, html); sErr != nil {
					logger.WithError(sErr).WithField("to", f.Email).Warn("send failed")
					failed++
				}
				cancel()
			}

			logger.WithField("recipe_id", evt.RecipeID).
				WithField("subscribers", len(followers)).
				WithField("failed", failed).
				Info("recipe notification processed")
			_ = msg.Ack(false)
		}
	}()

	select {
	case <-stop:
		log.Println("shutting down worker")
		_ = ch.Close()
		<-done
	case <-done:
	}
}
