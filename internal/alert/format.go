package alert

import (
	"encoding/json"
	"fmt"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event Event) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	default:
		return json.Marshal(event)
	}
}

func formatSlack(event Event) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("surfwatch: %s", event.State),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Domain:* %s", event.Domain)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Level:* %s", event.Level)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Score:* %d", event.Score)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Confidence:* %.2f", event.Confidence)},
				},
			},
		},
	}
	return json.Marshal(payload)
}
