package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPercentOff(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		percent int
		want    int64
	}{
		{"no discount", 100000, 0, 100000},
		{"ten percent", 100000, 10, 90000},
		{"full discount", 50000, 100, 0},
		{"negative treated as zero", 50000, -5, 50000},
		{"over hundred clamps", 50000, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPercentOff(decimal.NewFromInt(tt.amount), tt.percent)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestProduct_DiscountPercent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	active := &Discount{DiscountPercent: 20, StartDate: now.Add(-time.Hour), ExpiredDate: now.Add(time.Hour)}
	expired := &Discount{DiscountPercent: 20, StartDate: now.Add(-2 * time.Hour), ExpiredDate: now.Add(-time.Hour)}
	future := &Discount{DiscountPercent: 20, StartDate: now.Add(time.Hour), ExpiredDate: now.Add(2 * time.Hour)}

	price := decimal.NewFromInt(200000)

	assert.Equal(t, 0, (&Product{Price: price}).DiscountPercent(now))
	assert.Equal(t, 20, (&Product{Price: price, Discount: active}).DiscountPercent(now))
	assert.Equal(t, 0, (&Product{Price: price, Discount: expired}).DiscountPercent(now))
	assert.Equal(t, 0, (&Product{Price: price, Discount: future}).DiscountPercent(now))

	p := &Product{Price: price, Discount: active}
	assert.True(t, decimal.NewFromInt(160000).Equal(p.DiscountedPrice(now)))
}

func TestCartTotals(t *testing.T) {
	details := []CartDetail{
		{Quantity: 2, ItemPrice: decimal.NewFromInt(200000)},
		{Quantity: 1, ItemPrice: decimal.NewFromInt(50000)},
	}
	total, count := CartTotals(details)
	assert.True(t, decimal.NewFromInt(250000).Equal(total))
	assert.Equal(t, 3, count)

	total, count = CartTotals(nil)
	assert.True(t, total.IsZero())
	assert.Zero(t, count)
}

func TestVoucher_State(t *testing.T) {
	now := time.Now()
	limit := 2

	v := &Voucher{Type: VoucherTypePublic, MaxUsage: &limit, CollectedCount: 1, ExpiredDate: now.Add(time.Hour)}
	assert.False(t, v.IsExpired(now))
	assert.False(t, v.IsExhausted())

	v.CollectedCount = 2
	assert.True(t, v.IsExhausted())

	private := &Voucher{Type: VoucherTypePrivate, CollectedCount: 99, ExpiredDate: now}
	assert.False(t, private.IsExhausted())
	assert.True(t, private.IsExpired(now))

	assert.ErrorIs(t, (&Voucher{Type: VoucherTypePublic}).BeforeSave(nil), ErrPublicVoucherNeedsMaxUsage)
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(struct {
		Total decimal.Decimal `json:"total"`
	}{Total: decimal.RequireFromString("160000.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":160000.5}`, string(out))
}
