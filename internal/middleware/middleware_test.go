package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type fakeValidator map[string]*models.JWTClaims

func (f fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var tokens = fakeValidator{
	"admin":   {Role: models.RoleAdmin},
	"manager": {Role: models.RoleCampManager, CampID: "CAMP001"},
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/", JWT(tokens))
	auth.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	auth.GET("/camp/:campId", RequireRoles(models.RoleAdmin, models.RoleCampManager), RequireCampAccess("campId"), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.String(http.StatusOK, string(claims.Role))
	})
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRoles(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "Token admin").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "Bearer nope").Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "bearer manager").Code)
}

func TestRequireCampAccess(t *testing.T) {
	r := newRouter()

	rec := do(r, "/camp/CAMP001", "Bearer manager")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CAMP_MANAGER", rec.Body.String())

	rec = do(r, "/camp/CAMP002", "Bearer manager")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), appErrors.CodeForbidden)

	assert.Equal(t, http.StatusOK, do(r, "/camp/CAMP002", "Bearer admin").Code)
}

type recordedRequest struct {
	method, path string
	status       int
}

type fakeObserver struct{ got []recordedRequest }

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/inventory/:campId", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/inventory/CAMP001", "")
	do(r, "/nowhere", "")

	require.Len(t, obs.got, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/inventory/:campId", http.StatusOK}, obs.got[0])
	assert.Equal(t, "unmatched", obs.got[1].path)
	assert.Equal(t, http.StatusNotFound, obs.got[1].status)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	do(r, "/", "")
	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
