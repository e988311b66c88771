package pkg

import "golang.org/x/crypto/bcrypt"

const SecretHashCost = 14

// HashSecret produces the bcrypt hash the service is configured with
// to verify client secrets.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), SecretHashCost)
	if err != nil {
		return "", err
	}
	return BytesToString(hash), nil
}

func CheckSecretHash(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
