package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/metrics"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"gorm.io/gorm"
)

type VoucherService interface {
	Collect(ctx context.Context, userID, voucherID uint) (*model.UserVoucher, error)
	ListForUser(ctx context.Context, userID uint) ([]model.UserVoucher, error)
	ListPublishing(ctx context.Context) ([]model.Voucher, error)
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
}

type voucherService struct {
	voucherRepo repository.VoucherRepository
	db          *gorm.DB
	now         func() time.Time
}

func NewVoucherService(voucherRepo repository.VoucherRepository, db *gorm.DB) VoucherService {
	return &voucherService{
		voucherRepo: voucherRepo,
		db:          db,
		now:         time.Now,
	}
}

// Collect claims a voucher for the user. The read checks give precise
// errors; the conditional increment and the unique (user, voucher) index
// are what actually hold under concurrency.
func (s *voucherService) Collect(ctx context.Context, userID, voucherID uint) (*model.UserVoucher, error) {
	fields := map[string]interface{}{
		"user_id":    userID,
		"voucher_id": voucherID,
	}
	logger.Info("Collecting voucher", fields)

	uv, outcome, err := s.collect(ctx, userID, voucherID)
	metrics.RecordVoucherCollect(outcome)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			logger.Warn("Voucher collect rejected", map[string]interface{}{
				"user_id":    userID,
				"voucher_id": voucherID,
				"reason":     outcome,
			})
		} else {
			logger.Error("Voucher collect failed", err, fields)
		}
		return nil, err
	}

	logger.Info("Voucher collected", map[string]interface{}{
		"user_id":         userID,
		"voucher_id":      voucherID,
		"user_voucher_id": uv.ID,
	})
	return uv, nil
}

func (s *voucherService) collect(ctx context.Context, userID, voucherID uint) (*model.UserVoucher, string, error) {
	now := s.now()

	voucher, err := s.voucherRepo.FindByID(voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, metrics.OutcomeNotFound, ErrVoucherNotFound
		}
		return nil, metrics.OutcomeError, fmt.Errorf("load voucher: %w", err)
	}
	if voucher.IsExpired(now) {
		return nil, metrics.OutcomeExpired, ErrVoucherExpired
	}
	if voucher.IsExhausted() {
		return nil, metrics.OutcomeExhausted, ErrVoucherExhausted
	}

	if _, err := s.voucherRepo.FindUserVoucher(userID, voucherID); err == nil {
		return nil, metrics.OutcomeDuplicate, ErrVoucherAlreadyCollected
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, metrics.OutcomeError, fmt.Errorf("check existing collection: %w", err)
	}

	uv := &model.UserVoucher{
		UserID:      userID,
		VoucherID:   voucherID,
		CollectedAt: now,
	}
	outcome := metrics.OutcomeSuccess
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.voucherRepo.WithTx(tx)

		ok, err := repo.IncrementCollected(voucherID)
		if err != nil {
			return fmt.Errorf("increment collected count: %w", err)
		}
		if !ok {
			outcome = metrics.OutcomeCapReached
			return ErrVoucherCapReached
		}

		if err := repo.CreateUserVoucher(uv); err != nil {
			if apperrors.IsUniqueViolation(err) {
				outcome = metrics.OutcomeDuplicate
				return ErrVoucherAlreadyCollected
			}
			return fmt.Errorf("create user voucher: %w", err)
		}
		return nil
	})
	if err != nil {
		if outcome == metrics.OutcomeSuccess {
			outcome = metrics.OutcomeError
		}
		return nil, outcome, err
	}

	uv.Voucher = *voucher
	uv.Voucher.CollectedCount++
	return uv, outcome, nil
}

func (s *voucherService) ListForUser(ctx context.Context, userID uint) ([]model.UserVoucher, error) {
	collections, err := s.voucherRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list user vouchers: %w", err)
	}
	return collections, nil
}

func (s *voucherService) ListPublishing(ctx context.Context) ([]model.Voucher, error) {
	vouchers, err := s.voucherRepo.FindPublishing(s.now())
	if err != nil {
		return nil, fmt.Errorf("list publishing vouchers: %w", err)
	}
	return vouchers, nil
}

func (s *voucherService) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	voucher, err := s.voucherRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("load voucher by code: %w", err)
	}
	return voucher, nil
}
