package erp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Login authenticates against the ERP login form.
type Login struct {
	cfg       Config
	transport http.RoundTripper
	logger    *zap.Logger
}

// NewLogin creates a login authenticator. transport may be nil.
func NewLogin(cfg Config, transport http.RoundTripper, logger *zap.Logger) *Login {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Login{cfg: cfg, transport: transport, logger: logger}
}

// Authenticate posts the credentials and returns the session cookie value.
func (l *Login) Authenticate(ctx context.Context) (string, error) {
	if l.cfg.Username == "" || l.cfg.Password == "" {
		return "", fmt.Errorf("%w: credentials are not configured", ErrAuthentication)
	}

	base, err := url.Parse(l.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid ERP URL: %v", ErrAuthentication, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	client := &http.Client{Jar: jar, Timeout: l.cfg.Timeout(), Transport: l.transport}

	form := url.Values{
		"strUserName": {l.cfg.Username},
		"strPassword": {l.cfg.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	for k, v := range baseHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Referer", l.cfg.URL)

	l.logger.Info("Authenticating ERP client", zap.String("user", l.cfg.Username))

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: login returned status %d", ErrAuthentication, resp.StatusCode)
	}

	for _, cookie := range jar.Cookies(base) {
		if cookie.Name == l.cfg.SessionCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("%w: no %s cookie in login response", ErrAuthentication, l.cfg.SessionCookie)
}
