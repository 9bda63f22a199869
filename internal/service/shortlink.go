package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/admanager/ad-server-go/internal/errors"
)

const maxShortLinkResponseBytes = 64 << 10

var (
	ErrShortLinkDisabled = apperrors.GatewayUnavailable("not configured", nil)
	ErrShortLinkTimeout  = apperrors.GatewayUnavailable("timeout", nil)
	ErrShortLinkNetwork  = apperrors.GatewayUnavailable("network error", nil)
	ErrShortLinkStatus   = apperrors.GatewayUnavailable("unexpected status", nil)
	ErrShortLinkDecode   = apperrors.GatewayUnavailable("malformed response", nil)
	ErrShortLinkRejected = apperrors.GatewayUnavailable("request rejected", nil)
)

type ShortLinkConfig struct {
	Endpoint     string
	CustomerID   string
	PartnerAPIID string
	Timeout      time.Duration
}

type shortLinkResponse struct {
	Result  string `json:"result"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ShortLinkService calls the third-party URL shortener. Each call is a
// single attempt bounded by the client timeout.
type ShortLinkService struct {
	client       *http.Client
	endpoint     string
	customerID   string
	partnerAPIID string
}

func NewShortLinkService(cfg ShortLinkConfig) *ShortLinkService {
	return &ShortLinkService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:     cfg.Endpoint,
		customerID:   cfg.CustomerID,
		partnerAPIID: cfg.PartnerAPIID,
	}
}

func (s *ShortLinkService) Enabled() bool {
	return s.endpoint != "" && s.customerID != "" && s.partnerAPIID != ""
}

func (s *ShortLinkService) Shorten(ctx context.Context, longURL string) (string, error) {
	if !s.Enabled() {
		return "", ErrShortLinkDisabled
	}

	form := url.Values{}
	form.Set("customer_id", s.customerID)
	form.Set("partner_api_id", s.partnerAPIID)
	form.Set("org_url", longURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := s.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		if isTimeout(err) {
			log.Warn().Err(err).Str("url", longURL).Dur("elapsed", elapsed).Msg("short link request timed out")
			return "", errors.Join(ErrShortLinkTimeout, err)
		}
		log.Warn().Err(err).Str("url", longURL).Dur("elapsed", elapsed).Msg("short link request failed")
		return "", errors.Join(ErrShortLinkNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().
			Str("url", longURL).
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("short link gateway returned error status")
		return "", fmt.Errorf("%w: status %d", ErrShortLinkStatus, resp.StatusCode)
	}

	var body shortLinkResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxShortLinkResponseBytes)).Decode(&body); err != nil {
		log.Warn().Err(err).Str("url", longURL).Msg("short link response could not be decoded")
		return "", errors.Join(ErrShortLinkDecode, err)
	}

	if body.Result != "Y" || body.URL == "" {
		log.Warn().
			Str("url", longURL).
			Str("result", body.Result).
			Str("message", body.Message).
			Msg("short link gateway rejected request")
		return "", fmt.Errorf("%w: %s", ErrShortLinkRejected, body.Message)
	}

	log.Debug().
		Str("url", longURL).
		Str("shortUrl", body.URL).
		Dur("elapsed", elapsed).
		Msg("short link created")

	return body.URL, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
