package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// maxMulticastTokens is the FCM per-request token limit.
const maxMulticastTokens = 500

const clickAction = "FLUTTER_NOTIFICATION_CLICK"

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMProvider sends through Firebase Cloud Messaging.
type FCMProvider struct {
	client multicastSender
}

var _ Provider = (*FCMProvider)(nil)

// NewFCMProvider builds a messaging client from a service-account credentials file.
func NewFCMProvider(ctx context.Context, credentialsFile string) (*FCMProvider, error) {
	if credentialsFile == "" {
		return nil, errors.New("firebase credentials file is required")
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &FCMProvider{client: client}, nil
}

// SendEach sends n to tokens in multicast chunks. Android delivery uses high priority.
func (p *FCMProvider) SendEach(ctx context.Context, tokens []string, n Notification) ([]Result, error) {
	results := make([]Result, 0, len(tokens))
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := min(start+maxMulticastTokens, len(tokens))
		chunk := tokens[start:end]

		data := map[string]string{"click_action": clickAction}
		for k, v := range n.Data {
			data[k] = v
		}
		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       chunk,
			Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
			Data:         data,
			Android:      &messaging.AndroidConfig{Priority: "high"},
		})
		if err != nil {
			return nil, fmt.Errorf("fcm multicast: %w", err)
		}
		if len(resp.Responses) != len(chunk) {
			return nil, fmt.Errorf("fcm multicast: got %d responses for %d tokens", len(resp.Responses), len(chunk))
		}
		for i, r := range resp.Responses {
			res := Result{Token: chunk[i], Success: r.Success, MessageID: r.MessageID, Err: r.Error}
			if r.Error != nil && messaging.IsUnregistered(r.Error) {
				res.Unregistered = true
			}
			results = append(results, res)
		}
	}
	return results, nil
}
