package app

import (
	"context"
	"fmt"

	"foodgram/internal/config"
	"foodgram/internal/events"
	"foodgram/internal/notify"
	"foodgram/pkg/rabbitmq"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

// OpenMedia returns the media backend selected by MEDIA_DRIVER.
func OpenMedia(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.MediaDriver {
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	case "local":
		return storage.NewLocalStorage(cfg.MediaRoot, cfg.BaseURL+cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", cfg.MediaDriver)
	}
}

// OpenEvents connects to RabbitMQ when RABBITMQ_URL is set and starts the
// notification consumer. Without a broker, events are dropped. The returned
// close func is never nil.
func OpenEvents(ctx context.Context, cfg config.Config) (events.Publisher, func() error, error) {
	if cfg.RabbitMQURL == "" {
		log.Warn().Msg("RABBITMQ_URL not set, domain events are disabled")
		return events.NopPublisher{}, func() error { return nil }, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
	if err != nil {
		return nil, nil, err
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTPEnabled() {
		sender = notify.NewSMTPSender(notify.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Sender:   cfg.SMTPSender,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		})
	}
	if err := client.Consume(events.Decode(ctx, notify.NewNotifier(sender))); err != nil {
		client.Close()
		return nil, nil, err
	}
	return events.NewAMQPPublisher(client), client.Close, nil
}
