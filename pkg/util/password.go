package util

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword 비밀번호를 bcrypt로 해싱
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 평문 비밀번호와 해시 비교
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
