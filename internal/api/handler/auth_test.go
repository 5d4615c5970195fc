package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shoptalk/backend/internal/api/handler"
	"shoptalk/backend/internal/models"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := handler.NewHandler(nil, nil, nil, []byte("test-secret"))
	r := gin.New()
	r.GET("/api/token", h.GetToken)
	r.GET("/whoami", h.RequireParticipant, func(c *gin.Context) {
		value, _ := c.Get("participant")
		ref := value.(models.AccountRef)
		c.JSON(http.StatusOK, gin.H{"kind": ref.Kind, "ref_id": ref.RefID})
	})
	return r
}

// TestTokenRoundTrip verifies that a minted token authenticates a request and
// decodes back to the same participant reference.
func TestTokenRoundTrip(t *testing.T) {
	// Arrange
	r := newAuthRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/token?kind=company&ref=9", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var minted struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &minted))
	assert.NotEmpty(t, minted.Token)

	// Act
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+minted.Token)
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	var who struct {
		Kind  string `json:"kind"`
		RefID uint   `json:"ref_id"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &who))
	assert.Equal(t, "company", who.Kind)
	assert.Equal(t, uint(9), who.RefID)
}

// TestGetTokenRejectsUnknownKind verifies that only the three participant
// kinds can be minted.
func TestGetTokenRejectsUnknownKind(t *testing.T) {
	// Arrange
	r := newAuthRouter(t)

	// Act
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/token?kind=robot&ref=1", nil)
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestRequireParticipantRejectsMissingToken verifies the middleware aborts
// unauthenticated requests.
func TestRequireParticipantRejectsMissingToken(t *testing.T) {
	// Arrange
	r := newAuthRouter(t)

	// Act
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestRequireParticipantRejectsGarbageToken verifies that a malformed token
// is rejected rather than parsed into a zero participant.
func TestRequireParticipantRejectsGarbageToken(t *testing.T) {
	// Arrange
	r := newAuthRouter(t)

	// Act
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
