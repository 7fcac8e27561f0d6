package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// is returned when email/password don't match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is the authenticated caller as seen by handlers.
type Identity struct {
	UserID int
	Email  string
	Name   *string
	Role   Role
}

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// retrieves the *Identity from Gin context (after JWTMiddleware has run).
func GetCurrentIdentity(c *gin.Context) (*Identity, bool) {
	u, exists := c.Get("currentUser")
	if !exists {
		return nil, false
	}
	identity, ok := u.(*Identity)
	return identity, ok
}
