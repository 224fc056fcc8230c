// Package remote provides the HTTP clients for the joke and dictionary APIs.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

// NewHTTPClient returns a client bounded by timeout. When socksAddr is set,
// connections are dialed through that SOCKS5 proxy.
func NewHTTPClient(timeout time.Duration, socksAddr string) (*http.Client, error) {
	if socksAddr == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "invalid proxy address", apperrors.CategoryUser)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

// get performs a GET and reads the body. Transport failures come back as
// temporary AppErrors; the status code is left for the caller to judge.
func get(ctx context.Context, client *http.Client, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "invalid request URL", apperrors.CategoryPermanent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportErr(err)
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

func transportErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.Wrap(err, apperrors.CodeNetworkTimeout, "request timed out", apperrors.CategoryTemporary)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(err, apperrors.CodeNetworkUnavailable, "request canceled", apperrors.CategoryPermanent)
	}
	return apperrors.Wrap(err, apperrors.CodeNetworkUnavailable, "request failed", apperrors.CategoryTemporary)
}

// statusErr maps a non-2xx status to an AppError.
func statusErr(status int) error {
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimit(apperrors.CodeRemoteRateLimit, msg, 0)
	case status >= 500:
		return apperrors.Temporary(apperrors.CodeRemoteBadStatus, msg)
	default:
		return apperrors.Permanent(apperrors.CodeRemoteBadStatus, msg)
	}
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
