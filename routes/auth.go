package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/DanielMusau/WatchWave/db"
	m "github.com/DanielMusau/WatchWave/models"
)

const tokenExpiry = 30 * time.Minute

// currentUserKey is where the auth middleware stores the resolved user.
const currentUserKey = "currentUser"

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Metrics.CountBadRequest("signup")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	account, err := api.DB.InsertNewUser(req.Username, req.Email, req.Password)
	if errors.Is(err, db.ErrDuplicateEmail) {
		api.Metrics.CountBadRequest("signup")
		c.JSON(http.StatusConflict, gin.H{"error": "Email address already exists."})
		return
	}
	if err != nil {
		api.logger.WithError(err).Error("Error registering user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error occurred."})
		return
	}

	api.Metrics.CountSuccess("signup")
	c.JSON(http.StatusCreated, account)
}

func (api *API) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Metrics.CountBadRequest("login")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	user, err := api.DB.ValidateUser(req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, db.ErrInvalidCredentials) {
			api.logger.WithError(err).Error("Error validating credentials")
		}
		api.Metrics.CountBadRequest("login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := api.generateToken(user.ID)
	if err != nil {
		api.logger.WithError(err).Error("Error generating token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	api.Metrics.CountSuccess("login")
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": user.Account,
	})
}

// generateToken issues a signed HS256 token carrying the user id, valid
// for 30 minutes.
func (api *API) generateToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"public_id": userID,
		"exp":       time.Now().Add(tokenExpiry).Unix(),
	})
	return token.SignedString([]byte(api.Config.GetJWTSecret()))
}

// authMiddleware guards every protected route. A missing, malformed,
// badly signed, or expired bearer token ends the request with 401; a
// valid one is resolved to the user record (account included) and stored
// in the context for the handler.
func (api *API) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(api.Config.GetJWTSecret()), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		id, ok := claims["public_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		user, err := api.DB.GetUserByID(uint(id))
		if err != nil {
			// The token may outlive the user row.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentAccount returns the account of the authenticated user placed in
// the context by authMiddleware.
func currentAccount(c *gin.Context) (m.Account, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return m.Account{}, false
	}
	user, ok := value.(m.User)
	if !ok || user.Account == nil {
		return m.Account{}, false
	}
	return *user.Account, true
}
