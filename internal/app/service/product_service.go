package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductView is a catalog entry priced at the time of the request.
type ProductView struct {
	model.Product
	DiscountPercent int             `json:"discount_percent"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

func newProductView(p model.Product, now time.Time) ProductView {
	return ProductView{
		Product:         p,
		DiscountPercent: p.DiscountPercent(now),
		DiscountedPrice: p.DiscountedPrice(now),
	}
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]ProductView, error)
	GetProductByID(ctx context.Context, id uint) (*ProductView, error)
}

type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	now := s.now()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, now))
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count": len(views),
	})
	return views, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*ProductView, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	view := newProductView(*product, s.now())
	return &view, nil
}
