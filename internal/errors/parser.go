package errors

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err came from a unique index.
// Postgres reports SQLSTATE 23505 as "duplicate key value", sqlite as "UNIQUE constraint failed".
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// BindingFields flattens gin binding errors into field -> rule pairs.
// Returns nil when err is not a validator error.
func BindingFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[toSnake(fe.Field())] = rule
	}
	return fields
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
