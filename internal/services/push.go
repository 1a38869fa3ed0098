package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sam4007/studylink-backend/internal/config"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// TypeMessagePush is the queued task for notifying an offline receiver.
const TypeMessagePush = "push:message"

// MessagePushPayload is the task payload for a new-message notification.
type MessagePushPayload struct {
	DeviceToken string `json:"device_token"`
	SenderName  string `json:"sender_name"`
	Preview     string `json:"preview"`
}

// previewLength truncates the message body shown in the notification.
const previewLength = 80

// PushService enqueues notification deliveries. Sends happen off the
// request path in the asynq worker.
type PushService struct {
	client *asynq.Client
}

// NewPushService creates a new push service
func NewPushService(client *asynq.Client) *PushService {
	return &PushService{client: client}
}

// EnqueueMessagePush queues a new-message notification for an offline
// receiver. Callers skip this when the receiver has a live subscription.
func (s *PushService) EnqueueMessagePush(ctx context.Context, deviceToken, senderName, body string) error {
	if deviceToken == "" {
		return nil
	}
	if t := truncateRunes(body, previewLength); t != body {
		body = t + "…"
	}

	data, err := json.Marshal(MessagePushPayload{
		DeviceToken: deviceToken,
		SenderName:  senderName,
		Preview:     body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	task := asynq.NewTask(TypeMessagePush, data, asynq.MaxRetry(3))
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue push: %w", err)
	}
	return nil
}

// PushWorker delivers queued notifications over APNs.
type PushWorker struct {
	apns  *apns2.Client
	topic string
}

// NewPushWorker loads the APNs certificate and builds the worker.
func NewPushWorker(cfg config.APNsConfig) (*PushWorker, error) {
	cert, err := certificate.FromP12File(cfg.CertFile, cfg.CertPass)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushWorker{apns: client, topic: cfg.Topic}, nil
}

// HandleMessagePush processes one queued new-message notification.
func (w *PushWorker) HandleMessagePush(ctx context.Context, task *asynq.Task) error {
	var p MessagePushPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("failed to decode push payload: %w", err)
	}

	notification := &apns2.Notification{
		DeviceToken: p.DeviceToken,
		Topic:       w.topic,
		Payload: payload.NewPayload().
			AlertTitle(p.SenderName).
			AlertBody(p.Preview).
			Sound("default"),
	}

	res, err := w.apns.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}

	log.Debug().Str("apns_id", res.ApnsID).Msg("Push delivered")
	return nil
}
