package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
	"github.com/google/uuid"
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	Insecure      bool
	UserAgent     string
	Logger        logging.Logger
	// Token returns the current session token; nil or "" means anonymous.
	Token func() string
}

type HTTPClient struct {
	baseURL   *url.URL
	hc        *http.Client
	upload    *http.Client
	userAgent string
	log       logging.Logger
	token     func() string
}

var _ Client = (*HTTPClient)(nil)

func New(opt Options) (*HTTPClient, error) {
	if opt.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(opt.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return nil, errors.New("invalid base url")
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	if strings.EqualFold(u.Scheme, "https") {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: opt.Insecure} //nolint:gosec
	}

	timeout := opt.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	uploadTimeout := opt.UploadTimeout
	if uploadTimeout == 0 {
		uploadTimeout = 10 * time.Minute
	}

	log := opt.Logger
	if log == nil {
		log = logging.Nop()
	}
	token := opt.Token
	if token == nil {
		token = func() string { return "" }
	}
	ua := opt.UserAgent
	if ua == "" {
		ua = "vid2blog-client"
	}

	return &HTTPClient{
		baseURL:   u,
		hc:        &http.Client{Transport: t, Timeout: timeout},
		upload:    &http.Client{Transport: t, Timeout: uploadTimeout},
		userAgent: ua,
		log:       log,
		token:     token,
	}, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return c.doJSON(ctx, http.MethodPost, "/auth/signup", false, req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", false, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login: empty token in response")
	}
	return resp.Token, nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) (SendOTPResult, error) {
	req := struct {
		Email string `json:"email"`
	}{email}
	var resp SendOTPResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/send-otp", false, req, &resp)
	return resp, err
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (VerifyResult, error) {
	req := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{email, code}
	var resp VerifyResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", false, req, &resp); err != nil {
		return VerifyResult{}, err
	}
	return resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.doJSON(ctx, http.MethodGet, "/user/me", true, nil, &p)
	return p, err
}

func (c *HTTPClient) SaveHashnodeToken(ctx context.Context, token string) error {
	req := struct {
		Token string `json:"token"`
	}{token}
	return c.doJSON(ctx, http.MethodPost, "/user/hashnode", true, req, nil)
}

func (c *HTTPClient) SaveGroqAPIKey(ctx context.Context, key string) error {
	req := struct {
		APIKey string `json:"apiKey"`
	}{key}
	return c.doJSON(ctx, http.MethodPost, "/user/groq-api-key", true, req, nil)
}

func (c *HTTPClient) History(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := c.doJSON(ctx, http.MethodGet, "/history", true, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Convert streams the file at up.Path as the multipart field "video".
func (c *HTTPClient) Convert(ctx context.Context, up Upload) (ConversionResult, error) {
	f, err := os.Open(up.Path)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		name := up.Name
		if name == "" {
			name = f.Name()
		}
		ct := up.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename=%q`, name))
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/convert", true, pr)
	if err != nil {
		_ = pr.Close()
		return ConversionResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out ConversionResult
	if err := c.do(c.upload, req, true, &out); err != nil {
		_ = pr.CloseWithError(err)
		return ConversionResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, bearer bool, body any, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, bearer, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(c.hc, req, bearer, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, bearer bool, body io.Reader) (*http.Request, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimRight(c.baseURL.Path, "/") + path})
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if bearer {
		if tok := c.token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}
	return req, nil
}

func (c *HTTPClient) do(hc *http.Client, req *http.Request, bearer bool, out any) error {
	ctx := logging.ContextWithRequestID(req.Context(), req.Header.Get(common.RequestIDHeaderName))
	start := time.Now()
	log := c.log.With("method", req.Method, "path", req.URL.Path)

	resp, err := hc.Do(req)
	if err != nil {
		log.Debug(ctx, "api request failed", "duration", time.Since(start), "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "api request", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, bearer)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response, bearer bool) error {
	var er struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er)

	msg := er.Error
	if msg == "" {
		msg = er.Message
	}
	return &Error{Status: resp.StatusCode, Message: msg, bearer: bearer}
}
