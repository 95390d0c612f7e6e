package utils

import (
	"regexp"
	"strings"

	"github.com/techmaster-vietnam/goerrorkit"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail kiểm tra format email hợp lệ
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return goerrorkit.NewValidationError("Email là bắt buộc", map[string]interface{}{
			"field": "email",
		})
	}

	// RFC 5321: tổng độ dài email không quá 320 ký tự
	if len(email) > 320 {
		return goerrorkit.NewValidationError("Email quá dài (tối đa 320 ký tự)", map[string]interface{}{
			"field":      "email",
			"max_length": 320,
		})
	}

	if !emailRegex.MatchString(email) {
		return goerrorkit.NewValidationError("Email không hợp lệ: format không đúng", map[string]interface{}{
			"field": "email",
			"value": email,
		})
	}
	return nil
}

// ValidatePassword kiểm tra password không rỗng khi đăng nhập
func ValidatePassword(password string) error {
	if password == "" {
		return goerrorkit.NewValidationError("Mật khẩu là bắt buộc", map[string]interface{}{
			"field": "password",
		})
	}
	return nil
}
