package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/contextutil"
	"go-hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	codeInvalidToken = "INVALID_TOKEN"
	codeTokenExpired = "TOKEN_EXPIRED"
)

func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates the HMAC-signed access token and copies the
// user_id, employee_id and role claims into the gin context. employee_id may
// be empty for admin accounts that are not employees.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Error(c, http.StatusUnauthorized, codeTokenExpired, "Token has expired", nil)
			} else {
				response.Error(c, http.StatusUnauthorized, codeInvalidToken, "Invalid token", nil)
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, codeInvalidToken, "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, codeInvalidToken, "User ID not found in token", nil)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, codeInvalidToken, "Role not found in token", nil)
			c.Abort()
			return
		}

		employeeID, _ := claims["employee_id"].(string)

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("role", role)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		if employeeID != "" {
			ctx = contextutil.WithEmployeeID(ctx, employeeID)
		}
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", userID), zap.String("role", role))
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Next()
	}
}
