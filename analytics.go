package jotdb

import (
	"os"
	"sync"

	"github.com/posthog/posthog-go"
)

// Usage reporting is opt-in: it stays off unless JOTDB_POSTHOG_KEY is
// set to a PostHog project key. Events carry only the library and
// engine versions, never data.

const posthogHost = "https://us.i.posthog.com"

var (
	analyticsClient posthog.Client
	analyticsOnce   sync.Once
)

func analytics() posthog.Client {
	analyticsOnce.Do(func() {
		key := os.Getenv("JOTDB_POSTHOG_KEY")
		if key == "" {
			return
		}
		client, err := posthog.NewWithConfig(key, posthog.Config{
			Endpoint: posthogHost,
		})
		if err != nil {
			return
		}
		analyticsClient = client
	})
	return analyticsClient
}

// track enqueues one event, never blocking and never failing the
// caller.
func track(event string, properties map[string]any) {
	client := analytics()
	if client == nil {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["sdk_version"] = Version
	properties["sdk_language"] = "go"
	_ = client.Enqueue(posthog.Capture{
		DistinctId: "anonymous",
		Event:      event,
		Properties: properties,
	})
}

func reportOpen(engineVersion string) {
	track("database_opened", map[string]any{
		"engine_version": engineVersion,
	})
}

func reportClose(clean bool) {
	track("database_closed", map[string]any{
		"clean": clean,
	})
}
