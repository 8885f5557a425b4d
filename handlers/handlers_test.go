package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"parcel-delivery-api/config"
	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"
	"parcel-delivery-api/payments"
	"parcel-delivery-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	secret string
	err    error
}

func (f *fakeGateway) CreateIntent(amount int64, currency string) (string, error) {
	return f.secret, f.err
}

func newTestServerWithGateway(t *testing.T, gateway payments.Gateway) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := config.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	r := gin.New()
	routes.SetupRoutes(r, db, gateway)
	return r, db
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	return newTestServerWithGateway(t, &fakeGateway{secret: "pi_test_secret"})
}

func tokenFor(t *testing.T, email string, role models.UserRole) string {
	t.Helper()
	tok, err := middleware.GenerateToken(&models.User{ID: 1, Email: email, Role: role})
	require.NoError(t, err)
	return tok
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{Email: email, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// adminToken seeds an admin account and returns a matching bearer token.
// RoleRequired consults the store, so the record must exist.
func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	seedUser(t, db, "boss@ops.net", models.RoleAdmin)
	return tokenFor(t, "boss@ops.net", models.RoleAdmin)
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
