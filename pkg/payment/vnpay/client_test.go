package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "SECRETKEY123"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		TmnCode:    "DEMO0001",
		HashSecret: testSecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/v1/payments/vnpay/return",
		Location:   time.FixedZone("ICT", 7*60*60),
	})
	require.NoError(t, err)
	client.now = func() time.Time {
		return time.Date(2024, 5, 1, 5, 30, 0, 0, time.UTC)
	}
	return client
}

func buildAndParse(t *testing.T, client *Client, req PaymentRequest) url.Values {
	t.Helper()
	raw, err := client.BuildPaymentURL(req)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sandbox.vnpayment.vn", u.Host)
	return u.Query()
}

// resign replaces vnp_SecureHash after the test edits the parameters.
func resign(params url.Values) {
	params.Set(paramSecureHash, Sign(testSecret, CanonicalString(params)))
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{TmnCode: "X"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildPaymentURL_Parameters(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{
		OrderID:  42,
		Amount:   decimal.NewFromInt(160000),
		ClientIP: "127.0.0.1",
	})

	assert.Equal(t, "2.1.0", params.Get("vnp_Version"))
	assert.Equal(t, "pay", params.Get("vnp_Command"))
	assert.Equal(t, "DEMO0001", params.Get("vnp_TmnCode"))
	assert.Equal(t, "vn", params.Get("vnp_Locale"))
	assert.Equal(t, "VND", params.Get("vnp_CurrCode"))
	assert.Equal(t, "other", params.Get("vnp_OrderType"))
	assert.Equal(t, "16000000", params.Get("vnp_Amount"))
	assert.Equal(t, "127.0.0.1", params.Get("vnp_IpAddr"))
	// 05:30 UTC is 12:30 in Ho Chi Minh City
	assert.Equal(t, "20240501123000", params.Get("vnp_CreateDate"))
	assert.Equal(t, "42-20240501123000", params.Get("vnp_TxnRef"))
	assert.True(t, strings.HasPrefix(params.Get("vnp_OrderInfo"), "Thanh toan don hang 42. So tien "))
	assert.True(t, strings.HasSuffix(params.Get("vnp_OrderInfo"), " VND"))
	assert.Len(t, params.Get("vnp_SecureHash"), 128)
}

func TestBuildPaymentURL_LocaleOverride(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{
		OrderID: 7, Amount: decimal.NewFromInt(1000), Locale: "en", OrderInfo: "custom",
	})
	assert.Equal(t, "en", params.Get("vnp_Locale"))
	assert.Equal(t, "custom", params.Get("vnp_OrderInfo"))
}

func TestBuildPaymentURL_RejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t)
	_, err := client.BuildPaymentURL(PaymentRequest{OrderID: 1, Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSignatureRoundTrip(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{
		OrderID: 42, Amount: decimal.NewFromInt(160000), ClientIP: "10.0.0.1",
	})

	embedded := params.Get("vnp_SecureHash")
	assert.Equal(t, embedded, Sign(testSecret, CanonicalString(params)))
	assert.NoError(t, client.VerifySignature(params))

	// the hash type is not signed
	params.Set("vnp_SecureHashType", "HmacSHA512")
	assert.NoError(t, client.VerifySignature(params))
}

func TestVerifySignature_Tampered(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{
		OrderID: 42, Amount: decimal.NewFromInt(160000), ClientIP: "10.0.0.1",
	})

	params.Set("vnp_Amount", "1000")
	assert.ErrorIs(t, client.VerifySignature(params), ErrInvalidSignature)

	_, err := client.VerifyReturn(params)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	params.Del("vnp_SecureHash")
	assert.ErrorIs(t, client.VerifySignature(params), ErrInvalidSignature)
}

func TestVerifySignature_UppercaseHash(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{OrderID: 3, Amount: decimal.NewFromInt(5000)})
	params.Set("vnp_SecureHash", strings.ToUpper(params.Get("vnp_SecureHash")))
	assert.NoError(t, client.VerifySignature(params))
}

func TestCanonicalString(t *testing.T) {
	params := url.Values{
		"vnp_TxnRef":         {"1-20240101000000"},
		"vnp_Amount":         {"100"},
		"vnp_OrderInfo":      {"Thanh toan don hang 1"},
		"vnp_SecureHash":     {"abc"},
		"vnp_SecureHashType": {"HmacSHA512"},
		"orderId":            {"1"},
	}
	assert.Equal(t,
		"vnp_Amount=100&vnp_OrderInfo=Thanh toan don hang 1&vnp_TxnRef=1-20240101000000",
		CanonicalString(params))
}

func TestVerifyReturn_Parses(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{OrderID: 42, Amount: decimal.NewFromInt(160000)})
	params.Set("vnp_ResponseCode", "24")
	params.Set("vnp_TransactionNo", "14000001")
	params.Set("vnp_BankCode", "NCB")
	resign(params)

	result, err := client.VerifyReturn(params)
	require.NoError(t, err)
	assert.Equal(t, uint(42), result.OrderID)
	assert.Equal(t, "24", result.ResponseCode)
	assert.False(t, result.Succeeded())
	assert.True(t, decimal.NewFromInt(160000).Equal(result.Amount))
	assert.Equal(t, "NCB", result.BankCode)
}

func TestVerifyReturn_BadAmount(t *testing.T) {
	client := newTestClient(t)
	params := buildAndParse(t, client, PaymentRequest{OrderID: 42, Amount: decimal.NewFromInt(160000)})
	params.Set("vnp_Amount", "abc")
	resign(params)

	_, err := client.VerifyReturn(params)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseTxnRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    uint
		wantErr bool
	}{
		{"42-20240501123000", 42, false},
		{"7", 7, false},
		{"15-2024-extra", 15, false},
		{"-20240501", 0, true},
		{"abc-20240501", 0, true},
		{"0-20240501", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseTxnRef(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTxnRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLocation_Fallback(t *testing.T) {
	loc := LoadLocation("Nowhere/Invalid")
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestDeclinedError(t *testing.T) {
	err := error(&DeclinedError{Code: "24"})
	assert.Contains(t, err.Error(), "24")
}
