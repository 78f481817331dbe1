package common

import "golang.org/x/crypto/bcrypt"

// Password2Hash hashes an account password with bcrypt. Folder passwords are
// deliberately not run through this, see DESIGN.md.
func Password2Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func ValidatePasswordAndHash(password string, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
