package builtin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"reagent/internal/config"

	"golang.org/x/net/html"
)

const maxSearchResults = 5

// NoResultsMessage is returned when the backend answered but no result
// blocks matched the configured selectors.
const NoResultsMessage = "no results found"

// SearchCapability issues a web search against a configured HTML endpoint
// and extracts result snippets using the configured structural selectors.
type SearchCapability struct {
	cfg    config.SearchConfig
	client *http.Client
}

func NewSearchCapability(cfg config.SearchConfig) *SearchCapability {
	return &SearchCapability{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

func (s *SearchCapability) Name() string {
	return "wikipedia"
}

func (s *SearchCapability) Description() string {
	return "Returns a summary from searching the web"
}

func (s *SearchCapability) Example() string {
	return "wikipedia: Django"
}

// Execute runs the search and returns up to 5 "<heading>: <caption>" lines.
// Every fault (transport error, bad status, unreadable markup) is converted
// into a "search failed: ..." observation string.
func (s *SearchCapability) Execute(ctx context.Context, argument string) string {
	snippets, err := s.search(ctx, argument)
	if err != nil {
		return fmt.Sprintf("search failed: %v", err)
	}

	if len(snippets) == 0 {
		return NoResultsMessage
	}

	return strings.Join(snippets, "\n")
}

func (s *SearchCapability) search(ctx context.Context, query string) ([]string, error) {
	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	for key, value := range s.cfg.Params {
		params.Set(key, value)
	}
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return s.extractSnippets(doc), nil
}

// extractSnippets walks the document for result blocks matching the
// configured selectors and renders each as "<heading>: <caption>". The cap
// applies to collected snippets: blocks without a usable heading/caption
// pair (ad or media blocks carrying the result class) don't count against
// it.
func (s *SearchCapability) extractSnippets(doc *html.Node) []string {
	var snippets []string

	for _, block := range findAllByClass(doc, s.cfg.Selectors.Result) {
		if len(snippets) >= maxSearchResults {
			break
		}

		heading := findFirstByTag(block, s.cfg.Selectors.Heading)
		caption := findFirstByClass(block, s.cfg.Selectors.Caption)
		if caption != nil {
			// The snippet lives in the caption's first paragraph.
			if p := findFirstByTag(caption, "p"); p != nil {
				caption = p
			}
		}

		if heading == nil || caption == nil {
			continue
		}

		title := collapseSpace(textContent(heading))
		desc := collapseSpace(textContent(caption))
		if title == "" || desc == "" {
			continue
		}

		snippets = append(snippets, fmt.Sprintf("%s: %s", title, desc))
	}

	return snippets
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findAllByClass collects the element nodes carrying the given class, in
// document order. Matching nodes are not descended into, so nested result
// blocks are not double-counted.
func findAllByClass(root *html.Node, class string) []*html.Node {
	var found []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if hasClass(n, class) {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return found
}

func findFirstByClass(root *html.Node, class string) *html.Node {
	if hasClass(root, class) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirstByClass(c, class); n != nil {
			return n
		}
	}
	return nil
}

func findFirstByTag(root *html.Node, tag string) *html.Node {
	if root.Type == html.ElementNode && root.Data == tag {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirstByTag(c, tag); n != nil {
			return n
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
