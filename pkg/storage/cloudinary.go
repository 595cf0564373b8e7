package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.cloudinary.com"

	envCloudName = "CLOUDINARY_CLOUD_NAME"
	envAPIKey    = "CLOUDINARY_API_KEY"
	envAPISecret = "CLOUDINARY_API_SECRET"
)

// CloudinaryConfig holds the account and client settings.
type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	// RequestsPerSecond caps the request rate. Zero means unlimited.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Cloudinary implements Storage against the Cloudinary REST API.
type Cloudinary struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

type cloudinaryResource struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinary validates credentials and builds a client.
func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	missing := []string{}
	if cfg.CloudName == "" {
		missing = append(missing, envCloudName)
	}
	if cfg.APIKey == "" {
		missing = append(missing, envAPIKey)
	}
	if cfg.APISecret == "" {
		missing = append(missing, envAPISecret)
	}
	if len(missing) > 0 {
		return nil, errcodes.MissingCredentials(missing...)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Cloudinary{
		baseURL:    base,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}, nil
}

// Lookup fetches the asset's details from the admin API.
func (c *Cloudinary) Lookup(ctx context.Context, remoteID string) (string, error) {
	endpoint := c.baseURL + "/v1_1/" + url.PathEscape(c.cloudName) + "/resources/image/upload/" + escapeID(remoteID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create lookup request")
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	var res cloudinaryResource
	status, err := c.do(ctx, "lookup", req, &res)
	if status == http.StatusNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

// Upload sends a signed upload request.
func (c *Cloudinary) Upload(ctx context.Context, data []byte, opts UploadOptions) (string, error) {
	params := map[string]string{
		"public_id":       opts.RemoteID,
		"overwrite":       strconv.FormatBool(opts.Overwrite),
		"unique_filename": "false",
		"use_filename":    "false",
		"invalidate":      "false",
		"timestamp":       strconv.FormatInt(c.now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["asset_folder"] = opts.Folder
	}
	params["signature"] = sign(params, c.apiSecret)
	params["api_key"] = c.apiKey

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	keys := sortedKeys(params)
	for _, k := range keys {
		if err := w.WriteField(k, params[k]); err != nil {
			return "", errors.WithStack(err)
		}
	}
	name := opts.FileName
	if name == "" {
		name = "upload"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.WithStack(err)
	}
	if err := w.Close(); err != nil {
		return "", errors.WithStack(err)
	}

	endpoint := c.baseURL + "/v1_1/" + url.PathEscape(c.cloudName) + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var res cloudinaryResource
	if _, err := c.do(ctx, "upload", req, &res); err != nil {
		return "", err
	}
	if res.SecureURL == "" {
		return "", errcodes.Remote("upload", http.StatusOK, "response has no secure_url")
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) do(ctx context.Context, op string, req *http.Request, out interface{}) (int, error) {
	log := logger.FromContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, errors.Wrap(err, "rate limiter")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "storage %s request failed", op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrapf(err, "failed to read storage %s response", op)
	}

	log.Debug("storage request", logger.Data{
		"op":       op,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		var apiErr cloudinaryError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return resp.StatusCode, errcodes.Remote(op, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, errcodes.Remote(op, resp.StatusCode, "unreadable response: "+err.Error())
	}
	return resp.StatusCode, nil
}

// sign computes the request signature: the SHA-1 of the sorted k=v pairs
// joined by "&", followed by the API secret.
func sign(params map[string]string, secret string) string {
	pairs := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		if params[k] == "" {
			continue
		}
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeID(id string) string {
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
