// Package scraper extracts a recipe from an arbitrary web page.
//
// Pages are read with a colly collector. The schema.org Recipe object found in
// the page's JSON-LD blocks is the primary source; Open Graph and <title>
// tags fill in the title, image and canonical URL when it is missing.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"our-recipes/domain"

	"github.com/gocolly/colly/v2"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; OurRecipes/1.0; +https://github.com/our-recipes)"
	DefaultTimeout   = 20 * time.Second
)

type (
	Scraper interface {
		Scrape(ctx context.Context, pageURL string) (domain.ScrapedRecipe, error)
	}

	Config struct {
		UserAgent string
		Timeout   time.Duration
	}

	scraper struct {
		cfg Config
	}

	// contextTransport sends every request of one scrape under that scrape's
	// context, so a cancelled caller aborts the fetch in flight.
	contextTransport struct {
		ctx  context.Context
		base http.RoundTripper
	}

	// page collects everything the collector callbacks saw on one page.
	page struct {
		jsonLD       []string
		title        string
		ogTitle      string
		ogImage      string
		ogURL        string
		canonicalURL string
		contentType  string
	}
)

func NewScraper(cfg Config) Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &scraper{cfg: cfg}
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// newCollector builds a collector bound to ctx. The timeout lives on ctx, so
// the client's own timeout is switched off.
func (s *scraper) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(0)
	c.WithTransport(contextTransport{ctx: ctx, base: http.DefaultTransport})
	return c
}

func (s *scraper) Scrape(ctx context.Context, pageURL string) (domain.ScrapedRecipe, error) {
	target, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return domain.ScrapedRecipe{}, fmt.Errorf("%w: unsupported URL %q", domain.ErrScrapeFailed, pageURL)
	}

	if err := ctx.Err(); err != nil {
		return domain.ScrapedRecipe{}, fmt.Errorf("%w: %w", domain.ErrScrapeFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	c := s.newCollector(ctx)

	var p page
	c.OnResponse(func(r *colly.Response) {
		p.contentType = r.Headers.Get("Content-Type")
	})
	c.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		p.jsonLD = append(p.jsonLD, e.Text)
	})
	c.OnHTML("head title", func(e *colly.HTMLElement) {
		if p.title == "" {
			p.title = cleanText(e.Text)
		}
	})
	c.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		p.ogTitle = cleanText(e.Attr("content"))
	})
	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if p.ogImage == "" {
			p.ogImage = e.Request.AbsoluteURL(e.Attr("content"))
		}
	})
	c.OnHTML(`meta[property="og:url"]`, func(e *colly.HTMLElement) {
		p.ogURL = e.Request.AbsoluteURL(e.Attr("content"))
	})
	c.OnHTML(`link[rel="canonical"]`, func(e *colly.HTMLElement) {
		p.canonicalURL = e.Request.AbsoluteURL(e.Attr("href"))
	})

	if err := c.Visit(target.String()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.ScrapedRecipe{}, fmt.Errorf("%w: %s: %w", domain.ErrScrapeFailed, target, ctxErr)
		}
		return domain.ScrapedRecipe{}, fmt.Errorf("%w: %s: %w", domain.ErrScrapeFailed, target, err)
	}
	c.Wait()

	if !strings.Contains(strings.ToLower(p.contentType), "html") {
		return domain.ScrapedRecipe{}, fmt.Errorf("%w: %s: unsupported content type %q", domain.ErrScrapeFailed, target, p.contentType)
	}

	return p.recipe(target.String()), nil
}

func (p *page) recipe(pageURL string) domain.ScrapedRecipe {
	out := domain.ScrapedRecipe{
		Yields:      domain.NotAvailable,
		PrepTime:    domain.NotAvailable,
		CookTime:    domain.NotAvailable,
		Ingredients: []string{},
	}

	if node := findRecipeNode(p.jsonLD); node != nil {
		out.Title = cleanText(asString(node["name"]))
		out.Image = imageURL(node["image"])
		out.Yields = valueOr(yields(node["recipeYield"]), domain.NotAvailable)
		out.PrepTime = valueOr(duration(node["prepTime"]), domain.NotAvailable)
		out.CookTime = valueOr(duration(node["cookTime"]), domain.NotAvailable)
		out.Ingredients = ingredients(node)
		out.Instructions = instructions(node["recipeInstructions"])
		out.URL = absoluteURL(asString(node["url"]))
	}

	out.Title = firstNonEmpty(out.Title, p.ogTitle, p.title)
	out.Image = firstNonEmpty(out.Image, p.ogImage)
	out.URL = firstNonEmpty(out.URL, p.canonicalURL, p.ogURL, pageURL)
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func absoluteURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() {
		return ""
	}
	return u.String()
}
