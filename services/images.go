package services

import (
	"encoding/json"
	"strings"

	"github.com/dcode-github/gharbari/backend/errs"
)

// ParseRemovedImages normalizes the removedImages form values. Each value is
// either a JSON string array or a comma separated list. Entries are trimmed;
// empty entries and duplicates are dropped, first occurrence wins.
func ParseRemovedImages(values []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}

	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "[") {
			var urls []string
			if err := json.Unmarshal([]byte(raw), &urls); err != nil {
				return nil, errs.Validation("removedImages must be a JSON array of URLs or a comma separated list")
			}
			for _, u := range urls {
				add(u)
			}
			continue
		}
		for _, u := range strings.Split(raw, ",") {
			add(u)
		}
	}
	return out, nil
}
