package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

// Client is the single request pipeline every page goes through. It
// attaches the bearer token, clears a locally-expired session before
// flight, serializes JSON bodies, maps timeouts to ErrTimeout and funnels
// every 401 through one handler. It never retries on its own.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	session        *session.Store
	logger         *zap.Logger
	onUnauthorized func()
}

func New(baseURL string, timeout time.Duration, sess *session.Store, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    sess,
		logger:     logger.Named("client"),
	}
}

// SetUnauthorizedHandler registers the app-wide 401 reaction (switching to
// the login view). The session is already cleared when it runs.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, "", out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, "", out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, "", out)
}

func (c *Client) Delete(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, "", nil)
}

// PostMultipart sends an already-assembled multipart body. contentType must
// be the writer's FormDataContentType(); the pipeline never overrides it,
// the boundary parameter would be lost.
func (c *Client) PostMultipart(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	return c.doReader(ctx, http.MethodPost, path, nil, body, contentType, out)
}

func (c *Client) PutMultipart(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	return c.doReader(ctx, http.MethodPut, path, nil, body, contentType, out)
}

// Download streams a binary response (document archives) to w, reporting
// progress as bytes arrive. The response is not decoded.
func (c *Client) Download(ctx context.Context, path string, w io.Writer, progress func(written, total int64)) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return c.errorFromResponse(resp.StatusCode, raw)
	}

	total := resp.ContentLength
	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return c.mapTransportError(readErr)
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.doReader(ctx, method, path, query, reader, contentType, out)
}

func (c *Client) doReader(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.mapTransportError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("could not decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("could not build %s %s: %w", method, path, err)
	}

	// A token we already know is expired must not be sent; clear the pair
	// and let the request go out unauthenticated.
	token, err := c.session.Token()
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+token)
	case errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrInvalidToken):
		c.logger.Warn("stored token unusable, clearing session", zap.Error(err))
		c.session.Clear()
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) handleUnauthorized() error {
	c.session.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return apperrors.NewHttpError(http.StatusUnauthorized, "Session expired, please sign in again", apperrors.ErrUnauthorized)
}

func (c *Client) errorFromResponse(code int, raw []byte) error {
	msg := api.ExtractMessage(raw)
	if msg == "" {
		msg = "Request failed"
	}
	return apperrors.NewHttpError(code, msg, nil)
}

func (c *Client) mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.ErrTimeout
	}
	return fmt.Errorf("request failed: %w", err)
}
