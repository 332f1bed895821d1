package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/semaphore"
)

const downloadChunkSize = 8192

// WebOpsConfig configures the web tool set.
type WebOpsConfig struct {
	// Client issues outbound requests; per-request timeouts are its concern.
	Client *http.Client
	// MaxResponseBytes caps fetched and downloaded payloads.
	MaxResponseBytes int64
	// MaxConcurrent bounds simultaneous outbound calls.
	MaxConcurrent int64
	// SearchEndpoint is the stand-in search API queried by SearchWeb.
	SearchEndpoint string
	// AllowedDomains is advisory: off-list hosts are logged, never blocked.
	AllowedDomains []string
	Logger         *slog.Logger
}

// WebOps implements the web tools. A fixed-size permit pool gates
// simultaneous outbound calls; callers beyond the ceiling wait for a permit.
type WebOps struct {
	client         *http.Client
	sem            *semaphore.Weighted
	maxBytes       int64
	searchEndpoint string
	allowedDomains []string
	logger         *slog.Logger
}

// NewWebOps builds the web tool set.
func NewWebOps(cfg WebOpsConfig) *WebOps {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 1024 * 1024
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	endpoint := cfg.SearchEndpoint
	if endpoint == "" {
		endpoint = "https://jsonplaceholder.typicode.com/posts"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WebOps{
		client:         client,
		sem:            semaphore.NewWeighted(maxConcurrent),
		maxBytes:       maxBytes,
		searchEndpoint: endpoint,
		allowedDomains: cfg.AllowedDomains,
		logger:         logger,
	}
}

// Link is one hyperlink extracted from a fetched page.
type Link struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// FetchResult is the outcome of fetch_webpage.
type FetchResult struct {
	URL          string            `json:"url"`
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	TextContent  string            `json:"text_content"`
	HTMLContent  string            `json:"html_content,omitempty"`
	Links        []Link            `json:"links,omitempty"`
	ResponseSize int               `json:"response_size"`
	Headers      map[string]string `json:"headers"`
}

// SearchHit is one filtered result from the stand-in search endpoint.
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	ID      int    `json:"id"`
}

// SearchResult is the outcome of search_web.
type SearchResult struct {
	Query           string      `json:"query"`
	Language        string      `json:"language"`
	MaxResults      int         `json:"max_results"`
	TotalFound      int         `json:"total_found"`
	ResultsReturned int         `json:"results_returned"`
	Results         []SearchHit `json:"results"`
}

// DownloadResult is the outcome of download_file.
type DownloadResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Success     bool   `json:"success"`
}

// validateURL checks the scheme and logs off-list hosts. The domain list is
// advisory, matching the original policy: warn, do not block.
func (w *WebOps) validateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(CodeInvalidArgument, "invalid URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, Errorf(CodeInvalidArgument, "only HTTP and HTTPS URLs are allowed")
	}
	if len(w.allowedDomains) > 0 {
		listed := false
		for _, domain := range w.allowedDomains {
			if strings.HasSuffix(parsed.Hostname(), domain) {
				listed = true
				break
			}
		}
		if !listed {
			w.logger.Warn("accessing domain not in whitelist", "host", parsed.Hostname())
		}
	}
	return parsed, nil
}

func (w *WebOps) acquire(ctx context.Context) error {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return Errorf(CodeNetworkError, "request cancelled while waiting for permit: %v", err)
	}
	return nil
}

func (w *WebOps) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Errorf(CodeInvalidArgument, "invalid request: %v", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, Errorf(CodeNetworkError, "network error: %v", err)
	}
	return resp, nil
}

// FetchWebpage fetches a page, enforces the size ceiling, and extracts
// visible text, title, meta description, and optionally links.
func (w *WebOps) FetchWebpage(ctx context.Context, args map[string]interface{}) (*FetchResult, error) {
	rawURL, err := requireStringArg(args, "url")
	if err != nil {
		return nil, err
	}
	includeHTML, err := boolArg(args, "include_html", false)
	if err != nil {
		return nil, err
	}
	extractLinks, err := boolArg(args, "extract_links", false)
	if err != nil {
		return nil, err
	}

	base, err := w.validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := w.acquire(ctx); err != nil {
		return nil, err
	}
	defer w.sem.Release(1)

	resp, err := w.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Fail fast on the declared length, then re-check actual bytes read.
	if resp.ContentLength > w.maxBytes {
		return nil, Errorf(CodeResponseTooLarge, "response too large: %d bytes", resp.ContentLength)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBytes+1))
	if err != nil {
		return nil, Errorf(CodeNetworkError, "error reading response: %v", err)
	}
	if int64(len(body)) > w.maxBytes {
		return nil, Errorf(CodeResponseTooLarge, "response too large: exceeds %d bytes", w.maxBytes)
	}

	page := parsePage(body, base)

	result := &FetchResult{
		URL:          rawURL,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		Title:        page.title,
		Description:  page.description,
		TextContent:  page.text,
		ResponseSize: len(body),
		Headers:      flattenHeaders(resp.Header),
	}
	if includeHTML {
		result.HTMLContent = string(body)
	}
	if extractLinks {
		result.Links = page.links
	}
	return result, nil
}

// SearchWeb queries the fixed search endpoint and filters the results by
// case-insensitive substring match. This is a stand-in, not a real search
// integration.
func (w *WebOps) SearchWeb(ctx context.Context, args map[string]interface{}) (*SearchResult, error) {
	query, err := requireStringArg(args, "query")
	if err != nil {
		return nil, err
	}
	maxResults, err := intArg(args, "max_results", 10)
	if err != nil {
		return nil, err
	}
	language, err := stringArg(args, "language", "en")
	if err != nil {
		return nil, err
	}

	resp, err := w.get(ctx, w.searchEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errorf(CodeNetworkError, "search endpoint returned status %d", resp.StatusCode)
	}

	var posts []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, w.maxBytes)).Decode(&posts); err != nil {
		return nil, Errorf(CodeNetworkError, "error decoding search response: %v", err)
	}

	needle := strings.ToLower(query)
	matches := []SearchHit{}
	for _, post := range posts {
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Body), needle) {
			continue
		}
		snippet := post.Body
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		matches = append(matches, SearchHit{
			Title:   post.Title,
			Snippet: snippet,
			URL:     fmt.Sprintf("%s/%d", w.searchEndpoint, post.ID),
			ID:      post.ID,
		})
	}

	limited := matches
	if len(limited) > maxResults {
		limited = limited[:maxResults]
	}

	return &SearchResult{
		Query:           query,
		Language:        language,
		MaxResults:      maxResults,
		TotalFound:      len(matches),
		ResultsReturned: len(limited),
		Results:         limited,
	}, nil
}

// DownloadFile streams a URL to disk in fixed-size chunks. Crossing the size
// ceiling mid-transfer aborts the download and removes the partial file.
func (w *WebOps) DownloadFile(ctx context.Context, args map[string]interface{}) (*DownloadResult, error) {
	rawURL, err := requireStringArg(args, "url")
	if err != nil {
		return nil, err
	}
	filename, err := stringArg(args, "filename", "")
	if err != nil {
		return nil, err
	}

	parsed, err := w.validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		filename = path.Base(parsed.Path)
		if filename == "/" || filename == "." || filename == "" {
			filename = "downloaded_file"
		}
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return nil, Errorf(CodeInvalidArgument, "invalid filename: %s", filename)
	}

	if err := w.acquire(ctx); err != nil {
		return nil, err
	}
	defer w.sem.Release(1)

	resp, err := w.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errorf(CodeNetworkError, "download failed with status %d", resp.StatusCode)
	}
	if resp.ContentLength > w.maxBytes {
		return nil, Errorf(CodeResponseTooLarge, "file too large: %d bytes", resp.ContentLength)
	}

	out, err := os.Create(filename)
	if err != nil {
		return nil, Errorf(CodeAccessDenied, "cannot create file: %v", err)
	}

	written, err := copyCapped(out, resp.Body, w.maxBytes)
	closeErr := out.Close()
	if err != nil {
		os.Remove(filename)
		return nil, err
	}
	if closeErr != nil {
		os.Remove(filename)
		return nil, Errorf(CodeAccessDenied, "error writing file: %v", closeErr)
	}

	return &DownloadResult{
		URL:         rawURL,
		Filename:    filename,
		Size:        written,
		ContentType: resp.Header.Get("Content-Type"),
		Success:     true,
	}, nil
}

func copyCapped(dst io.Writer, src io.Reader, limit int64) (int64, error) {
	var written int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > limit {
				return written, Errorf(CodeResponseTooLarge, "file too large: exceeds %d bytes", limit)
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, Errorf(CodeAccessDenied, "error writing file: %v", werr)
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, Errorf(CodeNetworkError, "error reading response: %v", err)
		}
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key := range h {
		out[key] = h.Get(key)
	}
	return out
}

// parsedPage holds what the HTML walk extracted.
type parsedPage struct {
	title       string
	description string
	text        string
	links       []Link
}

// parsePage tolerantly parses HTML (x/net/html never fails on malformed
// input) and walks the tree once, collecting visible text, the title, the
// meta description, and anchors resolved against the base URL.
func parsePage(body []byte, base *url.URL) parsedPage {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return parsedPage{text: string(body)}
	}

	var page parsedPage
	var textParts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					page.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if attr(n, "name") == "description" {
					page.description = attr(n, "content")
				}
			case "a":
				if href := attr(n, "href"); href != "" {
					link := Link{Text: nodeText(n), URL: href, Title: attr(n, "title")}
					if ref, err := url.Parse(href); err == nil && base != nil {
						link.URL = base.ResolveReference(ref).String()
					}
					page.links = append(page.links, link)
				}
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				textParts = append(textParts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.text = strings.Join(textParts, " ")
	return page
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}
