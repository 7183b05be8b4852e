package publisher

import (
	"context"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/samber/lo"
)

const productCreateMutation = `
mutation productCreate($product: ProductCreateInput!, $media: [CreateMediaInput!]) {
  productCreate(product: $product, media: $media) {
    product { id title }
    userErrors { field message }
  }
}`

const variantsBulkCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkCreate(productId: $productId, variants: $variants) {
    productVariants { id title }
    userErrors { field message }
  }
}`

const primaryLocationQuery = `
query primaryLocation {
  locations(first: 1) { edges { node { id } } }
}`

// ProductInput is product creation input.
type ProductInput struct {
	Title           string               `json:"title"`
	DescriptionHTML string               `json:"descriptionHtml"`
	Vendor          string               `json:"vendor"`
	ProductOptions  []ProductOptionInput `json:"productOptions,omitempty"`
}

// ProductOptionInput is product option definition input.
type ProductOptionInput struct {
	Name   string             `json:"name"`
	Values []OptionValueInput `json:"values"`
}

// OptionValueInput is option value reference.
type OptionValueInput struct {
	Name string `json:"name"`
}

// MediaInput is media attached to created product.
type MediaInput struct {
	Alt              string `json:"alt"`
	MediaContentType string `json:"mediaContentType"`
	OriginalSource   string `json:"originalSource"`
}

// VariantInput is single variant of bulk variants creation.
type VariantInput struct {
	Price               string                   `json:"price"`
	SKU                 string                   `json:"sku"`
	OptionValues        []OptionValueInput       `json:"optionValues"`
	InventoryQuantities []InventoryQuantityInput `json:"inventoryQuantities"`
}

// InventoryQuantityInput is initial inventory of variant at location.
type InventoryQuantityInput struct {
	AvailableQuantity int    `json:"availableQuantity"`
	LocationID        string `json:"locationId"`
}

type productCreateData struct {
	ProductCreate struct {
		Product *struct {
			ID string `json:"id"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productCreate"`
}

type variantsBulkCreateData struct {
	ProductVariantsBulkCreate struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"productVariantsBulkCreate"`
}

type primaryLocationData struct {
	Locations struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"locations"`
}

// CreateProduct creates product with attached media and returns its remote ID.
// Options are sent only when product has real options, variants are then created at locationID.
// First product user error fails the creation, variant failures are only logged.
func (c *Client) CreateProduct(
	ctx context.Context,
	product models.ScrapedProduct,
	mediaHandles []string,
	locationID string,
) (string, error) {
	data, err := decodeData[productCreateData](ctx, c, productCreateMutation, map[string]any{
		"product": BuildProductInput(product),
		"media": lo.Map(mediaHandles, func(handle string, _ int) MediaInput {
			return MediaInput{Alt: product.Title, MediaContentType: "IMAGE", OriginalSource: handle}
		}),
	})
	if err != nil {
		return "", fmt.Errorf("can't create product: %w", err)
	}

	result := data.ProductCreate
	if len(result.UserErrors) > 0 {
		return "", fmt.Errorf("can't create product: %w", &result.UserErrors[0])
	}

	if result.Product == nil || result.Product.ID == "" {
		return "", fmt.Errorf("can't create product: %w: no product returned", ErrUnexpectedResponse)
	}

	if product.HasRealOptions() {
		if err := c.CreateVariants(ctx, result.Product.ID, product.Variants, locationID); err != nil {
			c.logger.Warn().
				Err(err).
				Str("shop", c.shop).
				Str("productId", result.Product.ID).
				Msg("variants not created")
		}
	}

	return result.Product.ID, nil
}

// CreateVariants bulk creates product variants with initial inventory at location.
// Variant user errors are logged and don't fail the call.
func (c *Client) CreateVariants(
	ctx context.Context,
	productID string,
	variants []models.ProductVariant,
	locationID string,
) error {
	if len(variants) == 0 {
		return nil
	}

	data, err := decodeData[variantsBulkCreateData](ctx, c, variantsBulkCreateMutation, map[string]any{
		"productId": productID,
		"variants":  BuildVariantInputs(variants, locationID),
	})
	if err != nil {
		return fmt.Errorf("can't create variants: %w", err)
	}

	for _, userErr := range data.ProductVariantsBulkCreate.UserErrors {
		c.logger.Warn().
			Str("shop", c.shop).
			Str("productId", productID).
			Strs("field", userErr.Field).
			Str("message", userErr.Message).
			Msg("variant not created")
	}

	return nil
}

// PrimaryLocation returns ID of the first shop's inventory location.
func (c *Client) PrimaryLocation(ctx context.Context) (string, error) {
	data, err := decodeData[primaryLocationData](ctx, c, primaryLocationQuery, nil)
	if err != nil {
		return "", fmt.Errorf("can't get primary location: %w", err)
	}

	if len(data.Locations.Edges) == 0 || data.Locations.Edges[0].Node.ID == "" {
		return "", ErrNoLocation
	}

	return data.Locations.Edges[0].Node.ID, nil
}

// BuildProductInput maps scraped product into product creation input.
// Options above models.MaxVariantOptions are dropped.
func BuildProductInput(product models.ScrapedProduct) ProductInput {
	input := ProductInput{
		Title:           product.Title,
		DescriptionHTML: product.DescriptionHTML,
		Vendor:          product.Vendor,
	}

	if product.HasRealOptions() {
		options := product.Options
		if len(options) > models.MaxVariantOptions {
			options = options[:models.MaxVariantOptions]
		}
		input.ProductOptions = lo.Map(options, func(opt models.ProductOption, _ int) ProductOptionInput {
			return ProductOptionInput{
				Name:   opt.Name,
				Values: toOptionValues(opt.Values),
			}
		})
	}

	return input
}

// BuildVariantInputs maps variants into bulk creation inputs. Empty option selections are skipped.
func BuildVariantInputs(variants []models.ProductVariant, locationID string) []VariantInput {
	return lo.Map(variants, func(v models.ProductVariant, _ int) VariantInput {
		return VariantInput{
			Price:        v.Price,
			SKU:          v.SKU,
			OptionValues: toOptionValues(v.SelectedOptions()),
			InventoryQuantities: []InventoryQuantityInput{{
				AvailableQuantity: v.InventoryQuantity,
				LocationID:        locationID,
			}},
		}
	})
}

func toOptionValues(values []string) []OptionValueInput {
	return lo.Map(values, func(value string, _ int) OptionValueInput {
		return OptionValueInput{Name: value}
	})
}
