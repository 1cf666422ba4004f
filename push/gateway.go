// Package push wraps the FCM client behind a small gateway interface so the
// dispatch engine and tests never touch the firebase SDK directly.
package push

import "context"

// MulticastLimit is the hard per-call token limit of the push gateway.
const MulticastLimit = 500

// Error codes stored on user documents and used by the token lifecycle
// policy. The messaging/* values mirror the FCM error names; transport-error
// is synthesized when a whole multicast call fails.
const (
	CodeNotRegistered  = "messaging/registration-token-not-registered"
	CodeInvalidToken   = "messaging/invalid-registration-token"
	CodeQuotaExceeded  = "messaging/quota-exceeded"
	CodeUnavailable    = "messaging/server-unavailable"
	CodeUnknown        = "messaging/unknown-error"
	CodeTransportError = "transport-error"
)

// AndroidHints carries the android-specific notification fields.
type AndroidHints struct {
	Icon     string
	Color    string
	Priority string
}

// APNSHints carries the apns-specific notification fields.
type APNSHints struct {
	Sound string
}

// Payload is one notification as handed to the gateway: title/body, the
// per-platform hints and an opaque data map delivered to the receiving app.
type Payload struct {
	Title   string
	Body    string
	Android AndroidHints
	APNS    APNSHints
	Data    map[string]string
}

// SendResult is the per-token outcome of a multicast call.
type SendResult struct {
	Success   bool
	MessageID string
	ErrorCode string
	Err       error
}

// BatchResult aggregates the outcomes of one multicast call. Responses is
// index-aligned with the tokens passed in.
type BatchResult struct {
	SuccessCount int
	FailureCount int
	Responses    []SendResult
}

// Gateway is the push gateway consumed by the dispatch engine.
type Gateway interface {
	// SendMulticast sends one payload to at most MulticastLimit tokens and
	// reports a per-token outcome. An error return means the call itself
	// failed and nothing was delivered.
	SendMulticast(ctx context.Context, tokens []string, payload Payload) (*BatchResult, error)
	// Send delivers to a single token, returning the gateway message id.
	Send(ctx context.Context, token string, payload Payload) (string, error)
}
