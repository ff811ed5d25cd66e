package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	paramPrefix         = "vnp_"
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
)

// CanonicalString serializes the signable parameters as k=v pairs joined by
// '&', keys in ASCII order, values unencoded. Only vnp_ keys are signed and
// the hash fields themselves are skipped. The first value of a repeated key wins.
func CanonicalString(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if !strings.HasPrefix(k, paramPrefix) || k == paramSecureHash || k == paramSecureHashType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params.Get(k))
	}
	return b.String()
}

// Sign returns the hex HMAC-SHA512 of data keyed by secret.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify recomputes the signature over params and compares it with the
// supplied vnp_SecureHash in constant time.
func verify(secret string, params url.Values) bool {
	supplied := strings.ToLower(params.Get(paramSecureHash))
	if supplied == "" {
		return false
	}
	expected := Sign(secret, CanonicalString(params))
	return hmac.Equal([]byte(expected), []byte(supplied))
}
