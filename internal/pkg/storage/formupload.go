package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"
	"sync"
	"time"
)

const (
	// Signed forms are typically valid for half an hour; refreshing a few
	// minutes early avoids racing the deadline mid-upload.
	defaultAuthTTL = 25 * time.Minute

	defaultTimeout = 30 * time.Second
)

// FormField is one signed form field. Order matters: storage backends
// validate the policy against the fields as sent, so Authorization keeps
// them as a slice, never a map.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Authorization is the signed upload form handed out by the backend.
type Authorization struct {
	URL       string      `json:"url"`
	Method    string      `json:"method"`
	ExpiresAt time.Time   `json:"expires_at"`
	Fields    []FormField `json:"fields"`
}

// FormConfig configures a FormProvider.
type FormConfig struct {
	// AuthURL serves signed upload forms.
	AuthURL string
	// PublicBaseURL is where uploaded objects become readable.
	PublicBaseURL string
	// AuthTTL caps how long one authorization is reused.
	AuthTTL time.Duration
	// Timeout bounds each HTTP call.
	Timeout time.Duration
}

// FormProvider uploads through two steps: fetch a signed form from the
// backend, then POST the bytes to the storage host with the signed fields
// replayed verbatim. One authorization is shared across uploads until it
// ages out.
type FormProvider struct {
	authURL       string
	publicBaseURL string
	client        *http.Client
	ttl           time.Duration

	mu      sync.Mutex
	auth    *Authorization
	fetched time.Time
}

// NewFormProvider builds a provider from cfg, filling in defaults.
func NewFormProvider(cfg FormConfig) *FormProvider {
	ttl := cfg.AuthTTL
	if ttl <= 0 {
		ttl = defaultAuthTTL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &FormProvider{
		authURL:       cfg.AuthURL,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
		ttl:           ttl,
	}
}

// Upload sends data under key using a signed form. The multipart body
// replays the signed fields in their issued order, then the object key,
// then the file part last, which is the layout form-based stores require.
func (p *FormProvider) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	auth, err := p.authorization(ctx)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range auth.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}
	if err := w.WriteField("key", key); err != nil {
		return "", fmt.Errorf("write form field key: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, path.Base(key)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish form body: %w", err)
	}

	method := auth.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, auth.URL, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The signature may simply have expired; drop it so the next
		// attempt fetches a fresh one.
		p.invalidate()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return p.publicURL(auth, key), nil
}

// authorization returns the cached signed form, fetching a fresh one when
// the cache is empty, older than the TTL or about to expire server-side.
func (p *FormProvider) authorization(ctx context.Context) (*Authorization, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.auth != nil && time.Since(p.fetched) < p.ttl {
		if p.auth.ExpiresAt.IsZero() || time.Until(p.auth.ExpiresAt) > time.Minute {
			return p.auth, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.authURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrAuthorization, resp.StatusCode)
	}

	var auth Authorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}

	p.auth = &auth
	p.fetched = time.Now()
	return p.auth, nil
}

func (p *FormProvider) invalidate() {
	p.mu.Lock()
	p.auth = nil
	p.mu.Unlock()
}

func (p *FormProvider) publicURL(auth *Authorization, key string) string {
	base := p.publicBaseURL
	if base == "" {
		base = strings.TrimSuffix(auth.URL, "/")
	}
	return base + "/" + key
}
