// Package captcha checks the bot-detection token submitted with signup and
// signin requests.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
)

// Verifier decides whether a request looks human. A false result with a nil
// error is a definite rejection; a non-nil error means the check could not
// be performed.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
	// Required reports whether callers must supply a token at all.
	Required() bool
}

// Noop accepts everything. Used when no reCAPTCHA secret is configured.
type Noop struct{}

func (Noop) Verify(context.Context, string) (bool, error) { return true, nil }
func (Noop) Required() bool                               { return false }

// Recaptcha verifies reCAPTCHA v3 tokens against the siteverify endpoint.
type Recaptcha struct {
	secret   string
	minScore float64
	endpoint string
	client   *http.Client
}

func NewRecaptcha(secret string, minScore float64, endpoint string) *Recaptcha {
	return &Recaptcha{
		secret:   secret,
		minScore: minScore,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *Recaptcha) Required() bool { return true }

// Verify accepts the token when Google reports success and a score of at
// least minScore. Transport and decoding failures wrap common.ErrorUpstream.
func (r *Recaptcha) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: siteverify: %v", common.ErrorUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: siteverify status %d", common.ErrorUpstream, resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%w: decode siteverify: %v", common.ErrorUpstream, err)
	}

	return body.Success && body.Score >= r.minScore, nil
}

// New picks Recaptcha when a secret is configured and Noop otherwise.
func New(secret string, minScore float64, endpoint string) Verifier {
	if secret == "" {
		return Noop{}
	}
	return NewRecaptcha(secret, minScore, endpoint)
}
