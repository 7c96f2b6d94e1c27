package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword 单向哈希，bcrypt.DefaultCost(10) 与注册/登录两侧保持一致
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
