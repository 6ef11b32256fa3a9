package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// API expõe o serviço de contas via HTTP. As rotas, códigos de status e
// formatos de resposta seguem o contrato que o cliente do jogo já consome.
type API struct {
	svc *Service
}

// NewAPI cria o adaptador HTTP.
func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

// RegisterRoutes monta as rotas em /api/auth.
func (a *API) RegisterRoutes(r gin.IRouter) {
	grp := r.Group("/api/auth")
	grp.POST("/register", a.handleRegister)
	grp.POST("/login", a.handleLogin)

	authed := grp.Group("", a.requireAuth)
	authed.GET("/profile", a.handleProfile)
	authed.PUT("/stats", a.handleStats)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	u, token, err := a.svc.Register(c.Request.Context(), req.Username, req.Password)
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Msg})
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
	case err != nil:
		log.Printf("[Auth] register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating user"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"token":   token,
			"user":    u.Public(),
		})
	}
}

func (a *API) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	u, token, err := a.svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
	case err != nil:
		log.Printf("[Auth] login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    u.Public(),
		})
	}
}

func (a *API) handleProfile(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	u, err := a.svc.Profile(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		log.Printf("[Auth] profile lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching profile"})
	default:
		c.JSON(http.StatusOK, gin.H{"user": u.Public()})
	}
}

type statsRequest struct {
	Stats Stats `json:"stats"`
}

func (a *API) handleStats(c *gin.Context) {
	var req statsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	stats, err := a.svc.AddStats(c.Request.Context(), c.GetString(ctxUserID), req.Stats)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		log.Printf("[Auth] stats update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating stats"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Stats updated successfully",
			"stats":   stats,
		})
	}
}

const ctxUserID = "userId"

// requireAuth valida o header Authorization: Bearer <token>.
func (a *API) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
		return
	}

	userID, err := a.svc.VerifyToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}
