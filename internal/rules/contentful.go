package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tayloree/cookr/internal/ingredient"
)

const (
	DefaultContentfulURL = "https://cdn.contentful.com"
	DefaultContentType   = "ingredientCategoryMatchingRule"
	DefaultLocale        = "pl"
	DefaultEnvironment   = "master"

	pageSize  = 100
	userAgent = "cookr/1.0"
)

// ContentfulOptions configures a ContentfulClient.
type ContentfulOptions struct {
	SpaceID     string
	AccessToken string
	Environment string
	Locale      string
	ContentType string
	BaseURL     string
	Timeout     time.Duration
}

// ContentfulClient loads matching rules from the Contentful Delivery API.
type ContentfulClient struct {
	httpClient *http.Client
	opts       ContentfulOptions
}

// NewContentfulClient creates a client. Empty options fall back to the
// package defaults.
func NewContentfulClient(opts ContentfulOptions) *ContentfulClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultContentfulURL
	}
	if opts.Environment == "" {
		opts.Environment = DefaultEnvironment
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.ContentType == "" {
		opts.ContentType = DefaultContentType
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &ContentfulClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// NewClientWithBaseURL creates a client against a custom API root (for testing).
func NewClientWithBaseURL(baseURL, spaceID, token string) *ContentfulClient {
	return NewContentfulClient(ContentfulOptions{SpaceID: spaceID, AccessToken: token, BaseURL: baseURL})
}

// Name describes the source for logs and errors.
func (c *ContentfulClient) Name() string {
	return "contentful:" + c.opts.SpaceID
}

// Load fetches every rule entry, following pagination until the reported
// total is reached. Rules whose category link cannot be resolved are
// skipped.
func (c *ContentfulClient) Load(ctx context.Context) ([]ingredient.MatchingRule, error) {
	var out []ingredient.MatchingRule
	for skip := 0; ; {
		var page entriesResponse
		if err := c.getAndDecode(ctx, c.entriesURL(skip), &page); err != nil {
			return nil, fmt.Errorf("fetching rules: %w", err)
		}

		rules, err := resolvePage(page)
		if err != nil {
			return nil, fmt.Errorf("fetching rules: %w", err)
		}
		out = append(out, rules...)

		skip += len(page.Items)
		if len(page.Items) == 0 || skip >= page.Total {
			break
		}
	}
	return out, nil
}

func (c *ContentfulClient) entriesURL(skip int) string {
	params := url.Values{
		"content_type": {c.opts.ContentType},
		"locale":       {c.opts.Locale},
		"include":      {"1"},
		"skip":         {strconv.Itoa(skip)},
		"limit":        {strconv.Itoa(pageSize)},
	}
	return fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.opts.BaseURL,
		url.PathEscape(c.opts.SpaceID),
		url.PathEscape(c.opts.Environment),
		params.Encode(),
	)
}

func (c *ContentfulClient) getAndDecode(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.opts.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: trailing JSON content")
	}
	return nil
}

func resolvePage(page entriesResponse) ([]ingredient.MatchingRule, error) {
	categories := make(map[string]ingredient.Category, len(page.Includes.Entry))
	for _, e := range page.Includes.Entry {
		var f categoryFields
		if err := json.Unmarshal(e.Fields, &f); err != nil {
			return nil, fmt.Errorf("decoding category %s: %w", e.Sys.ID, err)
		}
		categories[e.Sys.ID] = ingredient.Category{ID: e.Sys.ID, Name: f.Name}
	}

	rules := make([]ingredient.MatchingRule, 0, len(page.Items))
	for _, e := range page.Items {
		var f ruleFields
		if err := json.Unmarshal(e.Fields, &f); err != nil {
			return nil, fmt.Errorf("decoding rule %s: %w", e.Sys.ID, err)
		}
		cat, ok := categories[f.Category.Sys.ID]
		if !ok || cat.Name == "" {
			continue
		}
		rules = append(rules, ingredient.MatchingRule{ID: e.Sys.ID, Contains: f.Contains, Category: cat})
	}
	return rules, nil
}
