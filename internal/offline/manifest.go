package offline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// assetSelectors maps a selector to the attribute holding the asset reference.
var assetSelectors = []struct{ selector, attr string }{
	{"script[src]", "src"},
	{"link[href]", "href"},
	{"img[src]", "src"},
}

// DiscoverAssets loads the root document from origin and returns "/" followed by every same-origin asset path it
// references, without duplicates.
func DiscoverAssets(ctx context.Context, client *http.Client, origin *url.URL) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	root := origin.ResolveReference(&url.URL{Path: "/"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch root document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch root document: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse root document: %w", err)
	}

	paths := []string{"/"}
	for _, sel := range assetSelectors {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			ref, _ := s.Attr(sel.attr)
			if p, ok := sameOriginPath(root, ref); ok {
				paths = append(paths, p)
			}
		})
	}
	return MergeManifest(paths), nil
}

// MergeManifest concatenates lists, keeping the first occurrence of each path.
func MergeManifest(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, p := range list {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func sameOriginPath(base *url.URL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
		return "", false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(u)
	if !strings.EqualFold(abs.Scheme, base.Scheme) || !strings.EqualFold(abs.Host, base.Host) {
		return "", false
	}
	return abs.RequestURI(), true
}
