package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// HTTPClient wraps the standard HTTP client with the session handling the
// switch web interface expects
type HTTPClient struct {
	client  *http.Client
	baseURL string
	log     logrus.FieldLogger
}

// NormalizeAddress prepends http:// unless the address already names a scheme
func NormalizeAddress(address string) string {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	if !strings.HasPrefix(address, "http") {
		address = "http://" + address
	}
	return address
}

// NewHTTPClient creates a new HTTP client bound to one switch. Cookies set by
// the login page are kept in a jar and replayed on later requests.
func NewHTTPClient(address string, log logrus.FieldLogger) *HTTPClient {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none
	jar, _ := cookiejar.New(nil)

	return &HTTPClient{
		client:  &http.Client{Jar: jar},
		baseURL: NormalizeAddress(address),
		log:     log,
	}
}

// Get performs a GET request
func (h *HTTPClient) Get(ctx context.Context, path string, headers map[string]string) (*http.Response, error) {
	return h.request(ctx, http.MethodGet, path, nil, headers)
}

// Post performs a form encoded POST request
func (h *HTTPClient) Post(ctx context.Context, path string, data url.Values, headers map[string]string) (*http.Response, error) {
	var body io.Reader
	if data != nil {
		body = strings.NewReader(data.Encode())
		if headers == nil {
			headers = make(map[string]string)
		}
		headers["Content-Type"] = "application/x-www-form-urlencoded"
	}

	return h.request(ctx, http.MethodPost, path, body, headers)
}

func (h *HTTPClient) request(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	fullURL := h.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "zabbix-tplink-crawler/1.0")
	}

	h.log.WithFields(logrus.Fields{"method": method, "url": fullURL}).Debug("sending request")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	h.log.WithFields(logrus.Fields{"url": fullURL, "status": resp.Status}).Debug("received response")

	return resp, nil
}

// ReadBody reads and closes the response body
func (h *HTTPClient) ReadBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := string(body)
	if len(bodyStr) > 0 {
		// First 500 characters only
		preview := bodyStr
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		h.log.Debugf("response body preview: %s", preview)
	}

	return bodyStr, nil
}

// BaseURL returns the normalized switch URL
func (h *HTTPClient) BaseURL() string {
	return h.baseURL
}
