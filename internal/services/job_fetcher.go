package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxJobDescriptionChars = 15000
	maxJobPageBytes        = 5 << 20
)

var (
	whitespace = regexp.MustCompile(`\s+`)

	// carrier-grade NAT, not covered by net.IP.IsPrivate
	sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

	errNonPublicAddress = errors.New("address is not publicly routable")
)

type JobPosting struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type JobFetcher interface {
	Fetch(ctx context.Context, url string) (*JobPosting, error)
}

type jobFetcher struct {
	client *http.Client
}

// NewJobFetcher returns a fetcher using client. When client is nil the
// default client refuses to dial loopback, private and link-local addresses,
// redirects included.
func NewJobFetcher(client *http.Client) JobFetcher {
	if client == nil {
		dialer := &net.Dialer{
			Timeout: 10 * time.Second,
			Control: rejectNonPublic,
		}
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &jobFetcher{client: client}
}

// rejectNonPublic runs after DNS resolution, on the address actually dialed.
func rejectNonPublic(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w: %s", errNonPublicAddress, host)
	}
	return nil
}

func isPublicIP(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip))
}

func (f *jobFetcher) Fetch(ctx context.Context, jobURL string) (*JobPosting, error) {
	if !strings.HasPrefix(jobURL, "http://") && !strings.HasPrefix(jobURL, "https://") {
		return nil, NewValidationError("url", "A valid http(s) job posting URL is required.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
	if err != nil {
		return nil, NewValidationError("url", "A valid http(s) job posting URL is required.")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, errNonPublicAddress) {
			return nil, NewValidationError("url", "The job posting URL must point to a public address.")
		}
		return nil, &BackendError{Op: "fetch job posting", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{Op: "fetch job posting", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxJobPageBytes))
	if err != nil {
		return nil, &BackendError{Op: "parse job posting", Err: err}
	}

	posting := &JobPosting{URL: jobURL}
	posting.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if posting.Title == "" {
		posting.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	// JSON-LD JobPosting blocks carry the cleanest description.
	var content string
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		if content != "" {
			return
		}
		var ld any
		if err := json.Unmarshal([]byte(s.Text()), &ld); err != nil {
			return
		}
		node := findJobPosting(ld)
		if node == nil {
			return
		}
		if desc, ok := node["description"].(string); ok && desc != "" {
			content = stripHTML(desc)
		}
		if t, ok := node["title"].(string); ok && t != "" {
			posting.Title = t
		}
	})

	if content == "" {
		doc.Find("script, style, nav, header, footer").Remove()
		content = doc.Find("body").Text()
	}

	content = strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
	if content == "" {
		return nil, &BackendError{Op: "parse job posting", Err: fmt.Errorf("no text found at %s", jobURL)}
	}
	if runes := []rune(content); len(runes) > maxJobDescriptionChars {
		content = string(runes[:maxJobDescriptionChars])
	}

	posting.Description = content
	return posting, nil
}

// findJobPosting walks a JSON-LD value: a single object, a top-level array,
// or an object carrying an @graph list.
func findJobPosting(v any) map[string]any {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if found := findJobPosting(item); found != nil {
				return found
			}
		}
	case map[string]any:
		if isJobPostingType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findJobPosting(graph)
		}
	}
	return nil
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}
