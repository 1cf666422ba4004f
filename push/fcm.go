package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fcm "firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type fcmGateway struct {
	client *fcm.Client
}

// NewFCMGateway builds a Gateway backed by Firebase Cloud Messaging. It
// requires the path to a service-account key file.
func NewFCMGateway(ctx context.Context, credentialsPath string) (Gateway, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is not set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	zap.S().Infow("FCM gateway initialized", "credentialsPath", credentialsPath)
	return &fcmGateway{client: client}, nil
}

func (g *fcmGateway) SendMulticast(ctx context.Context, tokens []string, payload Payload) (*BatchResult, error) {
	if len(tokens) > MulticastLimit {
		return nil, fmt.Errorf("multicast limited to %d tokens, got %d", MulticastLimit, len(tokens))
	}

	br, err := g.client.SendEachForMulticast(ctx, &fcm.MulticastMessage{
		Tokens:       tokens,
		Notification: &fcm.Notification{Title: payload.Title, Body: payload.Body},
		Data:         payload.Data,
		Android: &fcm.AndroidConfig{
			Priority: payload.Android.Priority,
			Notification: &fcm.AndroidNotification{
				Icon:  payload.Android.Icon,
				Color: payload.Android.Color,
			},
		},
		APNS: &fcm.APNSConfig{
			Payload: &fcm.APNSPayload{
				Aps: &fcm.Aps{Sound: payload.APNS.Sound},
			},
		},
	})
	if err != nil {
		// The call itself failed; the caller counts the whole batch as
		// transport-error.
		return nil, fmt.Errorf("multicast send failed: %w", err)
	}

	out := &BatchResult{
		SuccessCount: br.SuccessCount,
		FailureCount: br.FailureCount,
		Responses:    make([]SendResult, len(br.Responses)),
	}
	for i, resp := range br.Responses {
		out.Responses[i] = SendResult{
			Success:   resp.Success,
			MessageID: resp.MessageID,
			ErrorCode: classifyError(resp.Error),
			Err:       resp.Error,
		}
	}
	return out, nil
}

func (g *fcmGateway) Send(ctx context.Context, token string, payload Payload) (string, error) {
	return g.client.Send(ctx, &fcm.Message{
		Token:        token,
		Notification: &fcm.Notification{Title: payload.Title, Body: payload.Body},
		Data:         payload.Data,
		Android: &fcm.AndroidConfig{
			Priority: payload.Android.Priority,
			Notification: &fcm.AndroidNotification{
				Icon:  payload.Android.Icon,
				Color: payload.Android.Color,
			},
		},
	})
}

// classifyError maps FCM send errors onto the stable error codes the token
// lifecycle policy keys off.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case fcm.IsUnregistered(err):
		return CodeNotRegistered
	case fcm.IsInvalidArgument(err):
		return CodeInvalidToken
	case fcm.IsQuotaExceeded(err):
		return CodeQuotaExceeded
	case fcm.IsUnavailable(err):
		return CodeUnavailable
	default:
		return CodeUnknown
	}
}
