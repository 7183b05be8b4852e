package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// PageSize is maximal page size allowed by storefront listing endpoint.
	PageSize = 250

	productsPathSegment = "/products/"
	maxBodySize         = 32 << 20
)

// Option is custom configuration of Scraper.
type Option func(s *Scraper)

// Scraper fetches storefront public catalogs and normalizes them into scraped products.
type Scraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	pageSize  int
	logger    *zerolog.Logger
}

// NewScraper returns new Scraper.
func NewScraper(client *http.Client, userAgent string, ops ...Option) *Scraper {
	nop := zerolog.Nop()
	s := &Scraper{
		client:    client,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		pageSize:  PageSize,
		logger:    &nop,
	}

	for _, op := range ops {
		op(s)
	}

	return s
}

// Preview scrapes single product when url points to product page and whole catalog otherwise.
func (s *Scraper) Preview(ctx context.Context, rawURL string) ([]models.ScrapedProduct, error) {
	if strings.Contains(rawURL, productsPathSegment) {
		product, err := s.FetchSingleProduct(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return []models.ScrapedProduct{product}, nil
	}

	return s.FetchStoreCatalog(ctx, rawURL)
}

// FetchStoreCatalog returns all products from store's public catalog in remote order.
// Failure of the first page fails the whole scrape, failures of later pages truncate the result.
func (s *Scraper) FetchStoreCatalog(ctx context.Context, storeURL string) ([]models.ScrapedProduct, error) {
	origin, err := normalizeOrigin(storeURL)
	if err != nil {
		return nil, err
	}

	products := make([]models.ScrapedProduct, 0, s.pageSize)

	for page := 1; ; page++ {
		items, err := s.fetchPage(ctx, origin, page)
		if err != nil {
			if page == 1 || ctx.Err() != nil {
				return nil, err
			}

			s.logger.Warn().
				Err(err).
				Str("store", origin).
				Int("page", page).
				Msg("catalog page failed, keeping already fetched pages")
			break
		}

		for ix := range items {
			products = append(products, toAppProduct(&items[ix], origin))
		}

		if len(items) < s.pageSize {
			break
		}
	}

	if len(products) == 0 {
		return nil, emptyCatalog()
	}

	return products, nil
}

// FetchSingleProduct returns product pointed by productURL, which must contain /products/{handle}.
func (s *Scraper) FetchSingleProduct(ctx context.Context, productURL string) (models.ScrapedProduct, error) {
	origin, handle, err := splitProductURL(productURL)
	if err != nil {
		return models.ScrapedProduct{}, err
	}

	body, err := s.get(ctx, fmt.Sprintf("%s/products/%s.json", origin, url.PathEscape(handle)), SubjectProduct)
	if err != nil {
		return models.ScrapedProduct{}, err
	}

	product, err := decodeProduct(body)
	if err != nil {
		return models.ScrapedProduct{}, notAStorefront(err)
	}

	if product.Handle == "" {
		product.Handle = handle
	}

	return toAppProduct(product, origin), nil
}

func (s *Scraper) fetchPage(ctx context.Context, origin string, page int) ([]Product, error) {
	pageURL := fmt.Sprintf("%s/products.json?limit=%d&page=%d", origin, s.pageSize, page)

	body, err := s.get(ctx, pageURL, SubjectStore)
	if err != nil {
		return nil, err
	}

	items, err := decodeCatalog(body)
	if err != nil {
		return nil, notAStorefront(err)
	}

	return items, nil
}

// get fetches url and returns response body, all failures are classified.
func (s *Scraper) get(ctx context.Context, rawURL string, subj Subject) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("can't wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, invalidURL("Please enter a valid store URL.", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ClassifyStatus(resp.StatusCode, subj)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, unreachable(fmt.Errorf("can't read response body: %w", err))
	}

	return body, nil
}

// normalizeOrigin reduces store URL into scheme and host, https is assumed when scheme is missing.
func normalizeOrigin(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", invalidURL("Please enter a store URL.", nil)
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "", invalidURL("Please enter a valid store URL.", err)
	}

	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), nil
}

// splitProductURL returns store origin and product handle from product page URL.
func splitProductURL(rawURL string) (string, string, error) {
	if !strings.Contains(rawURL, productsPathSegment) {
		return "", "", invalidURL("URL must contain /products/ to import a single product.", nil)
	}

	origin, err := normalizeOrigin(rawURL)
	if err != nil {
		return "", "", err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", invalidURL("Please enter a valid product URL.", err)
	}

	_, rest, _ := strings.Cut(parsed.Path, productsPathSegment)
	handle, _, _ := strings.Cut(rest, "/")
	handle = strings.TrimSuffix(handle, ".json")
	if handle == "" {
		return "", "", invalidURL("URL must contain /products/ to import a single product.", nil)
	}

	return origin, handle, nil
}

// WithRateLimit limits number of requests per second sent to scraped stores.
func WithRateLimit(rps float64) Option {
	return func(s *Scraper) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithPageSize sets custom listing page size.
func WithPageSize(size int) Option {
	return func(s *Scraper) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithLogger sets Scraper's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}
