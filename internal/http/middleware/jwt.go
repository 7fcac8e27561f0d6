package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/masjid-cloud/minbar/internal/db"
)

// store loads users for JWTMiddleware; set once at startup.
var store db.Store

func SetStore(s db.Store) {
	store = s
}

// signs a token embedding userID in the "sub" claim.
func GenerateJWT(userID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GenerateDeviceJWT signs the long-lived token a display uses for the
// socket and poll endpoints once pairing completes.
func GenerateDeviceJWT(deviceID, masjidID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    deviceID,
		"masjid": masjidID,
		"aud":    "device",
	})
	return token.SignedString([]byte(secret))
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// verifies the JWT and returns the user ID (unexported, only used internally).
func parseToken(tokenString, secret string) (int, error) {
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return 0, err
	}
	if aud, _ := claims["aud"].(string); aud == "device" {
		return 0, errors.New("device token not valid for admin endpoints")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid sub claim")
	}
	return int(sub), nil
}

// ParseDeviceToken verifies a display token and returns the device and
// masjid ids it was issued for.
func ParseDeviceToken(tokenString, secret string) (deviceID, masjidID int, err error) {
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return 0, 0, err
	}
	if aud, _ := claims["aud"].(string); aud != "device" {
		return 0, 0, errors.New("not a device token")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, 0, errors.New("invalid sub claim")
	}
	masjid, ok := claims["masjid"].(float64)
	if !ok {
		return 0, 0, errors.New("invalid masjid claim")
	}
	return int(sub), int(masjid), nil
}

// checks "Authorization: Bearer <token>", verifies it, loads the user, and
// sets "currentUser" in context.
func JWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header"})
			return
		}

		userID, err := parseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := store.GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		role, err := ParseRole(user.Role, user.MasjidID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid role"})
			return
		}
		c.Set("currentUser", &Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   role,
		})
		c.Next()
	}
}
