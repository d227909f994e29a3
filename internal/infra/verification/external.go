package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
)

var _ adapter.VerificationChecker = (*ExternalCheck)(nil)

// ExternalCheck validates a challenge against the shortener's log API. Any
// transport error, timeout or non-200 response counts as a failed check; the
// gate fails closed.
type ExternalCheck struct {
	endpoint string
	client   *http.Client
}

func NewExternalCheck(endpoint string, timeout time.Duration) *ExternalCheck {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ExternalCheck{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *ExternalCheck) Check(ctx context.Context, userID int64, challenge string) (bool, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("challenge", challenge)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Completed, nil
}
