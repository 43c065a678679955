// Package scrape fetches vendor listing pages and extracts product data for
// bulk import. Imported items land as zero-stock pre-orders priced through
// the margin calculator.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
)

// Cost legs assumed for scraped imports; the vendor page only exposes the
// supplier price, so the freight legs use these flat estimates.
const (
	DefaultShippingToCourierCents int64 = 1000
	DefaultShippingToEcuadorCents int64 = 1500
	DefaultLocalShippingCents     int64 = 700

	DefaultImportCategory     = "diseñador_premium"
	DefaultImportML           = 100
	DefaultImportLeadTimeDays = 20
)

var ErrNoProducts = errors.New("no products found on page")

// Item is one product extracted from a vendor listing page.
type Item struct {
	Name       string
	PriceCents int64
	ImageURL   string
	Link       string
	Brand      string
}

type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: 20 * time.Second},
		userAgent: userAgent,
	}
}

// FetchListing downloads and parses a vendor listing page. Transient HTTP
// failures are retried with exponential backoff.
func (s *Scraper) FetchListing(ctx context.Context, pageURL string) ([]Item, error) {
	var body []byte

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 45 * time.Second
	policy.MaxInterval = 10 * time.Second

	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", pageURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("read %s: %w", pageURL, err)
		}
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	items := ParseGiftExpress(root)
	if len(items) == 0 {
		return nil, ErrNoProducts
	}
	return items, nil
}

var rePrice = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]+)?)`)

// ParseGiftExpress walks a parsed giftexpress.com listing page. Products sit
// in li.flex.flex-col nodes: the anchor with class product-item-photo carries
// the name (title attr) and link, the first img the image, and the last
// dollar amount under a .price node the supplier price.
func ParseGiftExpress(root *html.Node) []Item {
	var items []Item
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "li" {
			return
		}
		cls := attr(n, "class")
		if !hasClass(cls, "flex") || !hasClass(cls, "flex-col") {
			return
		}

		var it Item
		walk(n, func(c *html.Node) {
			if c.Type != html.ElementNode {
				return
			}
			switch c.Data {
			case "a":
				if hasClass(attr(c, "class"), "product-item-photo") && it.Name == "" {
					it.Name = strings.TrimSpace(attr(c, "title"))
					it.Link = attr(c, "href")
				}
			case "img":
				if it.ImageURL == "" {
					it.ImageURL = absoluteImageURL(attr(c, "src"))
				}
			default:
				if hasClass(attr(c, "class"), "price") && it.PriceCents == 0 {
					it.PriceCents = lastPriceCents(textContent(c))
				}
			}
		})

		if it.Name != "" && it.PriceCents > 0 {
			it.Brand = "GiftExpress"
			items = append(items, it)
		}
	})
	return items
}

// lastPriceCents picks the final dollar amount in a price block, which on
// listing pages is the discounted price when a strike-through original is
// also present.
func lastPriceCents(text string) int64 {
	ms := rePrice.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(ms[len(ms)-1][1], 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

func absoluteImageURL(src string) string {
	if src == "" || strings.HasPrefix(src, "http") {
		return src
	}
	return "https://www.giftexpress.com" + src
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
