package domain

import "strings"

// Customer клиент организации
type Customer struct {
	ID    int64
	Name  string
	Phone string
}

// NormalizePhone оставляет в номере только цифры
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
