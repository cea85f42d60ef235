// README: FCM topic notifier for the dispatch app.
package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

type FCMNotifier struct {
	client *messaging.Client
	topic  string
	log    *zap.Logger
}

func NewFCMNotifier(ctx context.Context, app *firebase.App, topic string, log *zap.Logger) (*FCMNotifier, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialising firebase messaging client: %w", err)
	}
	return &FCMNotifier{client: client, topic: topic, log: log.Named("fcm")}, nil
}

func (n *FCMNotifier) Notify(ctx context.Context, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic: n.topic,
		Data:  data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	messageID, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending FCM to topic %s: %w", n.topic, err)
	}
	n.log.Debug("fcm sent", zap.String("topic", n.topic), zap.String("message_id", messageID))
	return nil
}
