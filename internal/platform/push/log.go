package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogProvider only logs notifications. Used when no push credentials are configured.
type LogProvider struct{}

var _ Provider = LogProvider{}

// SendEach logs one line per token and reports success.
func (LogProvider) SendEach(ctx context.Context, tokens []string, n Notification) ([]Result, error) {
	results := make([]Result, len(tokens))
	for i, token := range tokens {
		id := "log-" + uuid.NewString()
		slog.InfoContext(ctx, "push notification (log provider)",
			"token", token, "title", n.Title, "message_id", id, "data", n.Data)
		results[i] = Result{Token: token, Success: true, MessageID: id}
	}
	return results, nil
}
