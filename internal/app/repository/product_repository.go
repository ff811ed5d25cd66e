package repository

import (
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

// BulkCreate inserts products batchSize rows at a time. Discounts attached
// to the products are inserted with them.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(&products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count":      len(products),
			"batch_size": batchSize,
		})
		return err
	}

	logger.Info("Products bulk created in database", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Preload("Discount").Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

// FindByID loads the product with its discount so callers can price it
func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Discount").First(&product, id).Error; err != nil {
		logNotFoundOrError("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}
