package imgchest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"imgchest/pkg/logger"
	"imgchest/pkg/ratelimit"
)

const (
	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "imgchest-go/1.0"

	// RequestsPerMinute is the client-side api request budget.
	RequestsPerMinute = 60
)

// Client talks to imgchest.com, through both the authenticated api and
// the public website.
//
// A Client is safe for use from multiple goroutines.
type Client struct {
	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     logger.Logger

	mu      sync.RWMutex
	token   string
	headers map[string]string
}

// NewClient creates a new client. The token may be empty, in which case
// only unauthenticated operations are available until SetToken is called.
func NewClient(token string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.NewTokenBucket(RequestsPerMinute, time.Minute),
		logger:  log,
		token:   token,
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
		},
	}
}

// SetToken replaces the api token used by authenticated operations.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current api token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetHeader sets a header sent on every request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	c.headers[key] = value
	c.mu.Unlock()
}

// SetHeaders sets multiple headers at once.
func (c *Client) SetHeaders(headers map[string]string) {
	c.mu.Lock()
	for key, value := range headers {
		c.headers[key] = value
	}
	c.mu.Unlock()
}

// SetHTTPClient replaces the underlying http client.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetRateLimit replaces the request budget applied to api operations.
func (c *Client) SetRateLimit(requestsPerMinute int) {
	c.limiter = ratelimit.NewTokenBucket(requestsPerMinute, time.Minute)
}

// doRequest sends a request with the client headers applied, leaving
// headers already set on the request untouched.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	c.mu.RLock()
	for key, value := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	c.mu.RUnlock()

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, err
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// apiRequest sends an authenticated api request, honoring the rate limit.
func (c *Client) apiRequest(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	if wait := time.Since(start); wait > time.Second {
		c.logger.WarnWithFields("waited for rate limit", map[string]interface{}{
			"url":  url,
			"wait": wait,
		})
	}

	return c.doRequest(req)
}

// checkStatus reports a StatusError on non-2xx responses, closing the
// body for the failed ones.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	resp.Body.Close()

	err := &StatusError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
	}

	fields := map[string]interface{}{
		"url":    err.URL,
		"status": resp.StatusCode,
	}
	if resp.StatusCode >= 500 {
		c.logger.ErrorWithFields("server error response", fields)
	} else {
		c.logger.WarnWithFields("client error response", fields)
	}

	return err
}

// decodeJSON checks the response status and decodes the body into v.
func (c *Client) decodeJSON(resp *http.Response, v interface{}) error {
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		c.logger.DebugWithFields("undecodable response body", map[string]interface{}{
			"url":  resp.Request.URL.String(),
			"body": bodyPreview(body),
		})
		return fmt.Errorf("decoding response from %s: %w", resp.Request.URL.String(), err)
	}

	return nil
}

// completed decodes a status-only response, mapping a reported failure
// to ErrOperationFailed.
func (c *Client) completed(resp *http.Response) (*completedResponse, error) {
	var status completedResponse
	if err := c.decodeJSON(resp, &status); err != nil {
		return nil, err
	}

	if !status.Success {
		return nil, ErrOperationFailed
	}

	return &status, nil
}

// bodyPreview truncates a response body for log output.
func bodyPreview(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}

// GetPost fetches a post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	resp, err := c.apiRequest(ctx, http.MethodGet, PostURL(id), "", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Post `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// CreatePost creates a new post from one or more files.
//
// Upload bodies are closed whether or not the request succeeds.
func (c *Client) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if c.Token() == "" {
		closeBodies(req.Images)
		return nil, ErrMissingToken
	}
	if req.Title != "" && len(req.Title) < 3 {
		closeBodies(req.Images)
		return nil, ErrTitleTooShort
	}
	if len(req.Images) == 0 {
		return nil, ErrMissingImages
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeCreateForm(mw, req))
	}()

	resp, err := c.apiRequest(ctx, http.MethodPost, CreatePostURL, mw.FormDataContentType(), pr)
	if err != nil {
		pr.Close()
		return nil, err
	}

	var envelope struct {
		Data Post `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// UpdatePost edits an existing post. Zero-valued request fields are left
// untouched.
func (c *Client) UpdatePost(ctx context.Context, id string, req *UpdatePostRequest) (*Post, error) {
	form := url.Values{}
	if req.Title != "" {
		form.Set("title", req.Title)
	}
	if req.Privacy != "" {
		form.Set("privacy", string(req.Privacy))
	}
	if req.Nsfw != nil {
		form.Set("nsfw", strconv.FormatBool(*req.Nsfw))
	}

	// The api silently ignores bodies in encodings other than form data.
	resp, err := c.apiRequest(ctx, http.MethodPatch, PostURL(id), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Post `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	resp, err := c.apiRequest(ctx, http.MethodDelete, PostURL(id), "", nil)
	if err != nil {
		return err
	}

	_, err = c.completed(resp)
	return err
}

// FavoritePost toggles the favorite status of a post, reporting whether
// the post is now favorited.
func (c *Client) FavoritePost(ctx context.Context, id string) (bool, error) {
	resp, err := c.apiRequest(ctx, http.MethodPost, FavoriteURL(id), "", nil)
	if err != nil {
		return false, err
	}

	status, err := c.completed(resp)
	if err != nil {
		return false, err
	}
	if status.Message == nil {
		return false, ErrMissingMessage
	}

	switch *status.Message {
	case "Favorite added.":
		return true, nil
	case "Favorite removed.":
		return false, nil
	default:
		return false, &UnknownMessageError{Message: *status.Message}
	}
}

// AddPostImages appends files to an existing post.
//
// Upload bodies are closed whether or not the request succeeds.
func (c *Client) AddPostImages(ctx context.Context, id string, images []UploadFile) (*Post, error) {
	if c.Token() == "" {
		closeBodies(images)
		return nil, ErrMissingToken
	}
	if len(images) == 0 {
		return nil, ErrMissingImages
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeImagesForm(mw, images))
	}()

	resp, err := c.apiRequest(ctx, http.MethodPost, AddImagesURL(id), mw.FormDataContentType(), pr)
	if err != nil {
		pr.Close()
		return nil, err
	}

	var envelope struct {
		Data Post `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// GetFile fetches a file by id.
//
// The endpoint appears to be disabled server-side and may answer with an
// error for any id.
func (c *Client) GetFile(ctx context.Context, id string) (*PostFile, error) {
	resp, err := c.apiRequest(ctx, http.MethodGet, FileURL(id), "", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data PostFile `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// UpdateFile sets the description of a file. The description must not be
// empty.
func (c *Client) UpdateFile(ctx context.Context, id, description string) error {
	if description == "" {
		return ErrMissingDescription
	}

	form := url.Values{}
	form.Set("description", description)

	resp, err := c.apiRequest(ctx, http.MethodPatch, FileURL(id), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	_, err = c.completed(resp)
	return err
}

// DeleteFile removes a file from its post.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	resp, err := c.apiRequest(ctx, http.MethodDelete, FileURL(id), "", nil)
	if err != nil {
		return err
	}

	_, err = c.completed(resp)
	return err
}

// UpdateFiles sets the descriptions of multiple files in one call. Every
// description must be non-empty.
func (c *Client) UpdateFiles(ctx context.Context, updates []FileUpdate) ([]PostFile, error) {
	for _, update := range updates {
		if update.Description == "" {
			return nil, ErrMissingDescription
		}
	}

	payload, err := json.Marshal(struct {
		Data []FileUpdate `json:"data"`
	}{Data: updates})
	if err != nil {
		return nil, err
	}

	resp, err := c.apiRequest(ctx, http.MethodPatch, BulkFilesURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []PostFile `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

// GetUser fetches a user by name.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	resp, err := c.apiRequest(ctx, http.MethodGet, UserURL(username), "", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data User `json:"data"`
	}
	if err := c.decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// GetScrapedPost fetches a post by scraping its public page. No api token
// is required and the rate limit does not apply.
func (c *Client) GetScrapedPost(ctx context.Context, id string) (*ScrapedPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, PageURL(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParseScrapedPost(resp.Body)
}

// LoadExtraFiles fetches the files hidden behind the load-more button of
// a scraped post, using the csrf token taken from its page.
func (c *Client) LoadExtraFiles(ctx context.Context, post *ScrapedPost) ([]ScrapedPostFile, error) {
	form := url.Values{}
	form.Set("_token", post.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, LoadAllURL(post.ID), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParseScrapedFiles(resp.Body)
}

// Download fetches the content behind a file link. The caller must close
// the returned body.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// writeCreateForm writes the multipart payload of a create request.
func writeCreateForm(mw *multipart.Writer, req *CreatePostRequest) error {
	defer closeBodies(req.Images)

	if req.Title != "" {
		if err := mw.WriteField("title", req.Title); err != nil {
			return err
		}
	}
	if req.Privacy != "" {
		if err := mw.WriteField("privacy", string(req.Privacy)); err != nil {
			return err
		}
	}
	if req.Nsfw != nil {
		if err := mw.WriteField("nsfw", strconv.FormatBool(*req.Nsfw)); err != nil {
			return err
		}
	}
	if req.Anonymous != nil {
		if err := mw.WriteField("anonymous", strconv.FormatBool(*req.Anonymous)); err != nil {
			return err
		}
	}

	if err := writeImageParts(mw, req.Images); err != nil {
		return err
	}

	return mw.Close()
}

// writeImagesForm writes a multipart payload holding only image parts.
func writeImagesForm(mw *multipart.Writer, files []UploadFile) error {
	defer closeBodies(files)

	if err := writeImageParts(mw, files); err != nil {
		return err
	}

	return mw.Close()
}

// writeImageParts appends each upload as an images[] form part.
func writeImageParts(mw *multipart.Writer, files []UploadFile) error {
	for _, file := range files {
		part, err := mw.CreateFormFile("images[]", file.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return err
		}
	}

	return nil
}

func closeBodies(files []UploadFile) {
	for _, file := range files {
		if closer, ok := file.Body.(io.Closer); ok {
			closer.Close()
		}
	}
}
