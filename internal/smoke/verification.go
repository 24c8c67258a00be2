package smoke

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/addressbook/pkg/logger"
)

// verifyBurst checks that every burst create succeeded with a distinct id and
// that the list holds exactly those contacts for the run.
func verifyBurst(ctx context.Context, client *HTTPClient, cfg *Config, runID string, ids []string, before int) error {
	logger.Get().Info(ctx, "verifying burst")

	if len(ids) != cfg.Contacts {
		return mismatch("%d of %d burst creates succeeded", len(ids), cfg.Contacts)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return mismatch("id %s was assigned twice", id)
		}
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return mismatch("id %q is not a decimal counter", id)
		}
		seen[id] = struct{}{}
	}

	var list []Contact
	if _, err := client.Do(ctx, http.MethodGet, "/api/contacts", nil, &list); err != nil {
		return err
	}
	if grew := len(list) - before; grew < cfg.Contacts {
		return mismatch("list grew by %d, want at least %d", grew, cfg.Contacts)
	}

	tagged := 0
	for _, c := range list {
		if c[runTagField] != runID {
			continue
		}
		tagged++
		if _, ok := seen[c.ID()]; !ok {
			return mismatch("listed contact %s was not returned by any create", c.ID())
		}
	}
	if tagged != cfg.Contacts {
		return mismatch("list holds %d contacts for run %s, want %d", tagged, runID, cfg.Contacts)
	}

	logger.Get().Info(ctx, "burst verified", logger.Int("uniqueIds", len(seen)))
	return nil
}

// countContacts returns the current list length.
func countContacts(ctx context.Context, client *HTTPClient) (int, error) {
	var list []Contact
	if _, err := client.Do(ctx, http.MethodGet, "/api/contacts", nil, &list); err != nil {
		return 0, err
	}
	return len(list), nil
}
