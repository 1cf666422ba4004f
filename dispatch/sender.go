package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/finblood/finblood2/push"
)

// Outcome is the per-token result of the push phase, consumed by the token
// lifecycle updater and folded into the aggregate counters.
type Outcome struct {
	UserID       string
	Token        string
	Success      bool
	ErrorCode    string
	Err          error
	FlaggedStale bool
}

// sendBatches partitions the targets into gateway-sized batches and issues
// one multicast call per batch. A batch whose call fails outright is counted
// as all-failed with a synthetic transport-error code; remaining batches
// still go out.
func (e *Engine) sendBatches(ctx context.Context, targets []Target, payload push.Payload) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))

	for i := 0; i < len(targets); i += push.MulticastLimit {
		end := i + push.MulticastLimit
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[i:end]

		tokens := make([]string, len(batch))
		for j, t := range batch {
			tokens[j] = t.Token
		}

		br, err := e.Gateway.SendMulticast(ctx, tokens, payload)
		if err != nil {
			zap.S().Errorw("multicast batch failed, continuing with remaining batches",
				"batch", i/push.MulticastLimit+1, "tokens", len(batch), "error", err)
			for _, t := range batch {
				outcomes = append(outcomes, Outcome{
					UserID:       t.UserID,
					Token:        t.Token,
					ErrorCode:    push.CodeTransportError,
					Err:          err,
					FlaggedStale: t.FlaggedStale,
				})
			}
			continue
		}

		zap.S().Infow("batch sent",
			"batch", i/push.MulticastLimit+1,
			"success", br.SuccessCount,
			"failed", br.FailureCount,
		)

		for j, resp := range br.Responses {
			outcomes = append(outcomes, Outcome{
				UserID:       batch[j].UserID,
				Token:        batch[j].Token,
				Success:      resp.Success,
				ErrorCode:    resp.ErrorCode,
				Err:          resp.Err,
				FlaggedStale: batch[j].FlaggedStale,
			})
		}
	}
	return outcomes
}
