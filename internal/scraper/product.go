package scraper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strconv"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// DefaultVendor is used when product has no vendor.
	DefaultVendor = "Imported"
	// SKUPrefix prefixes SKUs synthesized from remote variant IDs.
	SKUPrefix = "IMP-"
)

var (
	errNotJSON        = errors.New("response body is not valid JSON")
	errMissingCatalog = errors.New("response has no products collection")
	errMissingProduct = errors.New("response has no product object")
)

// catalogPayload is model of storefront listing endpoint response.
type catalogPayload struct {
	Products *[]Product `json:"products"`
}

// productPayload is model of storefront single product endpoint response.
type productPayload struct {
	Product *Product `json:"product"`
}

// Product is model of product in storefront public catalog.
type Product struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	BodyHTML *string         `json:"body_html"`
	Vendor   string          `json:"vendor"`
	Handle   string          `json:"handle"`
	Images   []Image         `json:"images"`
	Options  []ProductOption `json:"options"`
	Variants []Variant       `json:"variants"`
}

// Image is model of product image in storefront public catalog.
type Image struct {
	Src string `json:"src"`
}

// ProductOption is model of product option in storefront public catalog.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is model of product variant in storefront public catalog.
type Variant struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	SKU               *string `json:"sku"`
	InventoryQuantity *int    `json:"inventory_quantity"`
	Option1           *string `json:"option1"`
	Option2           *string `json:"option2"`
	Option3           *string `json:"option3"`
}

// decodeCatalog validates that body is products collection and returns its items.
func decodeCatalog(body []byte) ([]Product, error) {
	var payload catalogPayload
	if err := strictDecode(body, &payload); err != nil {
		return nil, err
	}

	if payload.Products == nil {
		return nil, errMissingCatalog
	}

	return *payload.Products, nil
}

// decodeProduct validates that body is single product object and returns it.
func decodeProduct(body []byte) (*Product, error) {
	var payload productPayload
	if err := strictDecode(body, &payload); err != nil {
		return nil, err
	}

	if payload.Product == nil {
		return nil, errMissingProduct
	}

	return payload.Product, nil
}

func strictDecode(body []byte, target any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotJSON
	}

	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("%w: %w", errNotJSON, err)
	}

	return nil
}

// toAppProduct maps storefront product into models.ScrapedProduct.
func toAppProduct(product *Product, origin string) models.ScrapedProduct {
	description := ""
	if product.BodyHTML != nil {
		description = *product.BodyHTML
	}

	vendor := product.Vendor
	if vendor == "" {
		vendor = DefaultVendor
	}

	options := product.Options
	if len(options) > models.MaxVariantOptions {
		options = options[:models.MaxVariantOptions]
	}

	return models.ScrapedProduct{
		Title:           html.UnescapeString(product.Title),
		DescriptionHTML: description,
		Vendor:          vendor,
		SourceURL:       productURL(origin, product.Handle),
		Images: lo.FilterMap(product.Images, func(img Image, _ int) (string, bool) {
			return img.Src, img.Src != ""
		}),
		Options: lo.Map(options, func(opt ProductOption, _ int) models.ProductOption {
			return models.ProductOption{Name: opt.Name, Values: opt.Values}
		}),
		Variants: lo.Map(product.Variants, func(v Variant, _ int) models.ProductVariant {
			return toAppVariant(&v)
		}),
	}
}

func toAppVariant(variant *Variant) models.ProductVariant {
	sku := lo.FromPtr(variant.SKU)
	if sku == "" {
		sku = SKUPrefix + strconv.FormatInt(variant.ID, 10)
	}

	return models.ProductVariant{
		Title:             variant.Title,
		Price:             normalizePrice(variant.Price),
		SKU:               sku,
		InventoryQuantity: max(lo.FromPtr(variant.InventoryQuantity), 0),
		Options: [models.MaxVariantOptions]string{
			lo.FromPtr(variant.Option1),
			lo.FromPtr(variant.Option2),
			lo.FromPtr(variant.Option3),
		},
	}
}

// normalizePrice keeps valid decimal prices untouched and replaces invalid ones with zero price.
func normalizePrice(price string) string {
	if _, err := decimal.NewFromString(price); err != nil {
		return decimal.Zero.StringFixed(2)
	}
	return price
}

func productURL(origin, handle string) string {
	return fmt.Sprintf("%s/products/%s", origin, handle)
}
