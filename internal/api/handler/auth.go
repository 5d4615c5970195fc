package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"shoptalk/backend/internal/config"
	"shoptalk/backend/internal/models"
)

// generateToken issues a JWT carrying the participant reference.
func (h *Handler) generateToken(ref models.AccountRef) (string, error) {
	claims := jwt.MapClaims{
		"typ": string(ref.Kind),
		"ref": ref.RefID,
		"exp": time.Now().Add(config.TokenTTL).Unix(),
		"iss": config.TokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// validateToken parses a bearer token back into the participant reference.
func (h *Handler) validateToken(tokenString string) (models.AccountRef, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return models.AccountRef{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return models.AccountRef{}, fmt.Errorf("invalid token claims")
	}
	typ, _ := claims["typ"].(string)
	refID, okRef := claims["ref"].(float64)
	kind := models.ParticipantKind(typ)
	if !kind.Valid() || !okRef {
		return models.AccountRef{}, fmt.Errorf("invalid participant claims")
	}
	return models.AccountRef{Kind: kind, RefID: uint(refID)}, nil
}

// GetToken mints a participant token. Real login flows belong to the member
// service; this endpoint exists for development and trusted internal callers
// that already know which account they act for.
func (h *Handler) GetToken(c *gin.Context) {
	kind := models.ParticipantKind(c.Query("kind"))
	refID, err := strconv.ParseUint(c.Query("ref"), 10, 32)
	if !kind.Valid() || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind and ref query parameters required"})
		return
	}

	token, err := h.generateToken(models.AccountRef{Kind: kind, RefID: uint(refID)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RequireParticipant is the auth middleware for the chat API. It expects a
// bearer token and stores the decoded participant reference on the context.
func (h *Handler) RequireParticipant(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	ref, err := h.validateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	c.Set("participant", ref)
	c.Next()
}

// bearerToken extracts the token from the Authorization header, falling back
// to the token query parameter for websocket clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return c.Query("token")
}

func participantFrom(c *gin.Context) models.AccountRef {
	value, _ := c.Get("participant")
	ref, _ := value.(models.AccountRef)
	return ref
}
