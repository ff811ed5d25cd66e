package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/config"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/db"
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	batchSize    = 500
	demoPassword = "password123"
)

func main() {
	// Optional product sheet; the built-in catalog is used without one
	var filePath string
	if len(os.Args) > 1 {
		filePath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	voucherRepo := repository.NewVoucherRepository(db.GetDB())

	buyer, err := ensureUser(userRepo, "buyer@example.com", "Demo Buyer", model.RoleUser)
	if err != nil {
		log.Fatal("Failed to seed buyer:", err)
	}
	admin, err := ensureUser(userRepo, "admin@example.com", "Demo Admin", model.RoleAdmin)
	if err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	products := defaultProducts(time.Now())
	if filePath != "" {
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		products, err = readProductsFromXLSX(filePath, time.Now())
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	}

	existing, err := productRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to list products:", err)
	}
	if len(existing) > 0 && filePath == "" {
		fmt.Printf("Catalog already has %d products, skipping built-in catalog\n", len(existing))
	} else {
		fmt.Printf("Importing %d products with batch size %d\n", len(products), batchSize)
		if err := productRepo.BulkCreate(products, batchSize); err != nil {
			log.Fatal("Failed to bulk create products:", err)
		}
	}

	for _, v := range defaultVouchers(time.Now()) {
		v := v
		if err := voucherRepo.Create(&v); err != nil {
			if apperrors.IsUniqueViolation(err) {
				continue
			}
			log.Fatal("Failed to seed voucher:", err)
		}
		fmt.Printf("Voucher %s created\n", v.Code)
	}

	for _, u := range []*model.User{buyer, admin} {
		tokens, err := util.GenerateTokenPair(u.ID, u.Email, string(u.Role), cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
		if err != nil {
			log.Fatal("Failed to generate token:", err)
		}
		fmt.Printf("\n%s (%s, password %q)\naccess token: %s\n", u.Email, u.Role, demoPassword, tokens.AccessToken)
	}

	fmt.Println("\nSeed completed successfully!")
}

func ensureUser(repo repository.UserRepository, email, name string, role model.UserRole) (*model.User, error) {
	user, err := repo.FindByEmail(email)
	if err == nil {
		if !util.VerifyPassword(user.PasswordHash, demoPassword) || util.NeedsRehash(user.PasswordHash) {
			log.Printf("User %s exists with a different or outdated password hash; leaving it unchanged", email)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	user = &model.User{Email: email, PasswordHash: hash, Name: name, Role: role}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	fmt.Printf("User %s created\n", email)
	return user, nil
}

func saleFor(name string, percent int, now time.Time) *model.Discount {
	if percent <= 0 {
		return nil
	}
	return &model.Discount{
		Name:            name + " sale",
		DiscountPercent: percent,
		StartDate:       now,
		ExpiredDate:     now.AddDate(0, 1, 0),
	}
}

func defaultProducts(now time.Time) []model.Product {
	catalog := []struct {
		name    string
		price   int64
		stock   int
		percent int
	}{
		{"Mechanical keyboard", 1200000, 40, 10},
		{"Wireless mouse", 350000, 120, 0},
		{"27 inch monitor", 4500000, 15, 20},
		{"USB-C hub", 600000, 60, 5},
		{"Laptop stand", 450000, 80, 0},
	}

	products := make([]model.Product, 0, len(catalog))
	for _, p := range catalog {
		products = append(products, model.Product{
			Name:          p.name,
			Price:         decimal.NewFromInt(p.price),
			StockQuantity: p.stock,
			Discount:      saleFor(p.name, p.percent, now),
		})
	}
	return products
}

func defaultVouchers(now time.Time) []model.Voucher {
	welcomeCap, flashCap := 1000, 50
	return []model.Voucher{
		{
			Code:            "WELCOME10",
			Name:            "Welcome 10% off",
			Type:            model.VoucherTypePublic,
			DiscountPercent: 10,
			MaxDiscount:     decimal.NewFromInt(100000),
			StartDate:       now,
			ExpiredDate:     now.AddDate(0, 3, 0),
			MaxUsage:        &welcomeCap,
		},
		{
			Code:            "FLASH50",
			Name:            "Flash sale 50% off",
			Type:            model.VoucherTypePublic,
			DiscountPercent: 50,
			MaxDiscount:     decimal.NewFromInt(500000),
			StartDate:       now,
			ExpiredDate:     now.AddDate(0, 0, 7),
			MaxUsage:        &flashCap,
		},
		{
			Code:            "VIP20",
			Name:            "VIP 20% off",
			Type:            model.VoucherTypePrivate,
			DiscountPercent: 20,
			MaxDiscount:     decimal.NewFromInt(300000),
			StartDate:       now,
			ExpiredDate:     now.AddDate(1, 0, 0),
		},
	}
}
