package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted one-way hash; raw secrets never leave this
// boundary.
func HashPassword(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func VerifyPassword(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
