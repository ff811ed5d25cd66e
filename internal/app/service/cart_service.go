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

// CartView is a cart with its derived totals.
type CartView struct {
	Cart           *model.Cart     `json:"cart"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalItemCount int             `json:"total_item_count"`
}

func newCartView(cart *model.Cart) *CartView {
	if cart.CartDetails == nil {
		cart.CartDetails = []model.CartDetail{}
	}
	total, count := model.CartTotals(cart.CartDetails)
	return &CartView{Cart: cart, TotalPrice: total, TotalItemCount: count}
}

type CartService interface {
	GetCart(ctx context.Context, userID uint) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, lineItemID uint) (*CartView, error)
	SetQuantity(ctx context.Context, userID, lineItemID uint, quantity int) (*CartView, error)
	Clear(ctx context.Context, userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	locker      CartLocker
	db          *gorm.DB
	now         func() time.Time
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	locker CartLocker,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		locker:      locker,
		db:          db,
		now:         time.Now,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newCartView(&model.Cart{UserID: userID}), nil
		}
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	view := newCartView(cart)
	logger.Debug("User cart fetched", map[string]interface{}{
		"user_id":          userID,
		"total_item_count": view.TotalItemCount,
	})
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	unitPrice := product.DiscountedPrice(s.now())
	added := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindByUserID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = &model.Cart{UserID: userID}
			if err := cartRepo.Create(cart); err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		existing, err := cartRepo.FindDetailByProduct(cart.ID, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load cart detail: %w", err)
		}

		if existing != nil {
			// accumulate: earlier units keep the price they were added at
			existing.Quantity += quantity
			existing.ItemPrice = existing.ItemPrice.Add(added)
			return cartRepo.UpdateDetail(existing)
		}

		return cartRepo.CreateDetail(&model.CartDetail{
			CartID:    &cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			ItemPrice: added,
		})
	})
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_price": unitPrice.String(),
	})
	return s.GetCart(ctx, userID)
}

// ownedDetail loads a line item and checks that it sits in userID's cart.
func (s *cartService) ownedDetail(userID, lineItemID uint) (*model.Cart, *model.CartDetail, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartItemNotFound
		}
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}

	detail, err := s.cartRepo.FindDetailByID(lineItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartItemNotFound
		}
		return nil, nil, fmt.Errorf("load cart detail: %w", err)
	}
	if detail.CartID == nil || *detail.CartID != cart.ID {
		logger.Warn("Cart item does not belong to user", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": lineItemID,
		})
		return nil, nil, ErrCartItemNotFound
	}
	return cart, detail, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, lineItemID uint) (*CartView, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, _, err := s.ownedDetail(userID, lineItemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteDetail(lineItemID); err != nil {
		return nil, fmt.Errorf("delete cart detail: %w", err)
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": lineItemID,
	})
	return s.GetCart(ctx, userID)
}

// SetQuantity overwrites the quantity only. ItemPrice stays the snapshot
// taken when the units were added.
func (s *cartService) SetQuantity(ctx context.Context, userID, lineItemID uint, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, lineItemID)
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, detail, err := s.ownedDetail(userID, lineItemID)
	if err != nil {
		return nil, err
	}

	detail.Quantity = quantity
	if err := s.cartRepo.UpdateDetail(detail); err != nil {
		return nil, fmt.Errorf("update cart detail: %w", err)
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": lineItemID,
		"quantity":     quantity,
	})
	return s.GetCart(ctx, userID)
}

// Clear deletes every line item and the cart itself. A missing cart is not an error.
func (s *cartService) Clear(ctx context.Context, userID uint) error {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load cart: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.cartRepo.WithTx(tx).Delete(cart.ID)
	})
	if err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
	})
	return nil
}
