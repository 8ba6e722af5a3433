package qsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/question"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/limiter"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
)

const (
	DefaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"
	defaultHTTPTimeout    = 8 * time.Second
)

// GoogleProvider reads question phrasings out of Google Custom Search
// results. Titles and snippets go through the question detector; every
// detected question carries the link of the result it came from.
type GoogleProvider struct {
	endpoint   string
	apiKey     string
	engineID   string
	httpClient *http.Client
	retryParam retry.RetryParam
	detector   question.Detector
	limiter    limiter.RateLimiter
	host       string
}

type googleSearchResponse struct {
	Items []googleSearchItem `json:"items"`
}

type googleSearchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func NewGoogleProvider(
	endpoint string,
	apiKey string,
	engineID string,
	httpClient *http.Client,
	retryParam retry.RetryParam,
	cues []string,
) GoogleProvider {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultGoogleEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	host := ""
	if parsed, err := url.Parse(endpoint); err == nil {
		host = parsed.Host
	}
	return GoogleProvider{
		endpoint:   endpoint,
		host:       host,
		apiKey:     apiKey,
		engineID:   engineID,
		httpClient: httpClient,
		retryParam: retryParam,
		detector:   question.NewDetector(question.SourceTextMinLength, cues),
	}
}

// WithRateLimiter returns a copy of g that paces its search requests
// through l. Throttled and failing responses back the endpoint host off.
func (g GoogleProvider) WithRateLimiter(l limiter.RateLimiter) GoogleProvider {
	g.limiter = l
	return g
}

func (g GoogleProvider) Lookup(ctx context.Context, keyword string, source Source) ([]SearchQuestion, error) {
	if source != SourceGoogle {
		return nil, &ProviderError{
			Message: fmt.Sprintf("google provider cannot serve %q", source),
			Cause:   ErrCauseUnsupportedSource,
		}
	}

	task := func() (googleSearchResponse, failure.ClassifiedError) {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx, g.host); err != nil {
				return googleSearchResponse{}, &ProviderError{
					Message: fmt.Sprintf("rate limiter: %v", err),
					Cause:   ErrCauseRequestFailure,
				}
			}
		}
		resp, err := g.search(ctx, keyword)
		g.pace(err)
		return resp, err
	}
	// non-retryable provider errors come back as is, everything else
	// as a retry.RetryError wrapping the last attempt
	resp, err := retry.Retry(ctx, g.retryParam, task)
	if err != nil {
		return nil, err
	}

	var questions []SearchQuestion
	for _, item := range resp.Items {
		for _, text := range []string{item.Title, item.Snippet} {
			for _, q := range g.detector.Detect(text) {
				questions = append(questions, SearchQuestion{
					Source: source,
					Text:   q,
					URL:    item.Link,
				})
			}
		}
	}
	return questions, nil
}

func (g GoogleProvider) search(ctx context.Context, keyword string) (googleSearchResponse, failure.ClassifiedError) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return googleSearchResponse{}, &ProviderError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseRequestFailure,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return googleSearchResponse{}, &ProviderError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: ctx.Err() == nil,
			Cause:     ErrCauseRequestFailure,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return googleSearchResponse{}, &ProviderError{
			Message:   fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Cause:     ErrCauseBadStatus,
		}
	}

	var decoded googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return googleSearchResponse{}, &ProviderError{
			Message: err.Error(),
			Cause:   ErrCauseDecodeFailure,
		}
	}
	return decoded, nil
}

func (g GoogleProvider) pace(err failure.ClassifiedError) {
	if g.limiter == nil {
		return
	}
	if err == nil {
		g.limiter.ResetBackoff(g.host)
		return
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.Cause == ErrCauseBadStatus && providerErr.Retryable {
		g.limiter.Backoff(g.host)
	}
}
