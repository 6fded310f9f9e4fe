package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"grocermart-backend/internal/models"
	"grocermart-backend/internal/storage"
	"grocermart-backend/internal/utils"
)

// productsCollection is the document collection holding the live catalog
const productsCollection = "products"

// ErrProductNotFound is returned when a product id does not exist in the
// live catalog
var ErrProductNotFound = errors.New("product not found")

// ErrNotProductOwner is returned when a vendor operates on a product that
// belongs to another vendor
var ErrNotProductOwner = errors.New("product belongs to another vendor")

// CatalogService handles the product catalog on top of the document store.
// The order core only reads products by id for vendor matching; the CRUD
// surface serves the admin and vendor consoles.
type CatalogService struct {
	docs storage.DocumentStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(docs storage.DocumentStore) *CatalogService {
	return &CatalogService{docs: docs}
}

// CreateProduct creates a new product. Vendors own what they create; admins
// create unowned (house) products.
func (s *CatalogService) CreateProduct(ctx context.Context, session models.Session, creation *models.ProductCreation) (*models.Product, error) {
	if !session.IsAdmin() && !session.IsVendor() {
		return nil, fmt.Errorf("insufficient permissions to create products")
	}
	if err := utils.ValidateStruct(creation); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:       uuid.New().String(),
		Name:     creation.Name,
		Price:    creation.Price,
		Image:    creation.Image,
		Category: creation.Category,
		Organic:  creation.Organic,
		Stock:    creation.Stock,
	}
	if session.IsVendor() {
		product.VendorID = session.VendorID
	}

	data, err := json.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize product: %w", err)
	}
	if err := s.docs.Add(ctx, productsCollection, product.ID, string(data)); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProductByID retrieves a product from the live catalog
func (s *CatalogService) GetProductByID(ctx context.Context, productID string) (*models.Product, error) {
	doc, err := s.docs.Get(ctx, productsCollection, productID)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal([]byte(doc.Data), &product); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	return &product, nil
}

// GetProducts retrieves the catalog, optionally filtered by category or
// vendor. Results are sorted by name for stable listings.
func (s *CatalogService) GetProducts(ctx context.Context, category models.ProductCategory, vendorID string) ([]models.Product, error) {
	docs, err := s.docs.ListAll(ctx, productsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		var product models.Product
		if err := json.Unmarshal([]byte(doc.Data), &product); err != nil {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		if vendorID != "" && product.VendorID != vendorID {
			continue
		}
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// UpdateProduct applies a partial update to a product. Vendors may only
// update their own products.
func (s *CatalogService) UpdateProduct(ctx context.Context, session models.Session, productID string, update *models.ProductUpdate) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(session, product); err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Organic != nil {
		product.Organic = *update.Organic
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}
	if update.Stock != nil {
		product.Stock = update.Stock
	}

	data, err := json.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize product: %w", err)
	}
	if err := s.docs.Update(ctx, productsCollection, productID, string(data)); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product from the live catalog. Historical orders
// keep their snapshots; vendor matching for future fan-outs will skip the
// deleted product.
func (s *CatalogService) DeleteProduct(ctx context.Context, session models.Session, productID string) error {
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(session, product); err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, productsCollection, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *CatalogService) checkOwnership(session models.Session, product *models.Product) error {
	if session.IsAdmin() {
		return nil
	}
	if session.IsVendor() && product.VendorID == session.VendorID {
		return nil
	}
	return ErrNotProductOwner
}

// VendorsForItems resolves the distinct vendor ids represented among the
// given order items, joined against the live catalog rather than the
// frozen snapshots so vendor identity reflects current product ownership.
// Items whose product no longer exists resolve to no vendor.
func (s *CatalogService) VendorsForItems(ctx context.Context, items []models.OrderItem) (map[string][]models.OrderItem, error) {
	vendors := make(map[string][]models.OrderItem)
	for _, item := range items {
		product, err := s.GetProductByID(ctx, item.ID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		if !product.HasVendor() {
			continue
		}
		vendors[product.VendorID] = append(vendors[product.VendorID], item)
	}
	return vendors, nil
}
