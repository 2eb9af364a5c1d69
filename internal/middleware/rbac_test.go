package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	})
	r.DELETE("/protected", RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	router := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/protected", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRolesForbidsOtherRole(t *testing.T) {
	router := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleStaff}, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/protected", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	router := rbacRouter(nil, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
