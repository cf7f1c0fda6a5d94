package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards destructive routes with HTTP basic auth checked against a
// bcrypt hash. With no hash configured the routes are disabled.
func AdminAuth(user, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			respondError(c, http.StatusForbidden, "ADMIN_DISABLED", "Admin operations are disabled")
			return
		}
		gotUser, password, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="reguguard"`)
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid admin credentials")
			return
		}
		c.Next()
	}
}

// HashPassword returns the bcrypt hash to use as ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
