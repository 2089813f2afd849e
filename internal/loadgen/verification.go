package loadgen

import (
	"fmt"

	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/internal/domain/scoring"
)

// verifyResponse checks a ranking response: results are in rank order and
// every invalid upload of this request is reported as an error.
func verifyResponse(resp *service.Response, uploads []Upload) error {
	if !scoring.Ranked(resp.Results) {
		return fmt.Errorf("request %s: results are not in rank order", resp.RequestID)
	}
	invalid := 0
	for _, u := range uploads {
		if u.IsInvalid() {
			invalid++
		}
	}
	if len(resp.Errors) != invalid {
		return fmt.Errorf("request %s: %d document errors, want %d", resp.RequestID, len(resp.Errors), invalid)
	}
	return nil
}

// verifySession checks that the session holds every valid upload.
func verifySession(resp *service.Response, want int) error {
	if !scoring.Ranked(resp.Results) {
		return fmt.Errorf("session %s: results are not in rank order", resp.SessionID)
	}
	if len(resp.Results) != want {
		return fmt.Errorf("session %s: %d candidates, want %d", resp.SessionID, len(resp.Results), want)
	}
	seen := make(map[string]struct{}, len(resp.Results))
	for i := range resp.Results {
		name := resp.Results[i].Filename
		if _, dup := seen[name]; dup {
			return fmt.Errorf("session %s: %s ranked twice", resp.SessionID, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
