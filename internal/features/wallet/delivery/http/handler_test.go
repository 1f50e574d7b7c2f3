package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/wallet/models"
)

type stubService struct {
	link *models.WalletLink
	info *models.WalletInfo
}

func (s *stubService) Connect(_ context.Context, userID int64, addr, walletApp string) (*models.WalletLink, error) {
	s.link = &models.WalletLink{UserID: userID, Address: addr, WalletApp: walletApp, IsConnected: true}
	return s.link, nil
}

func (s *stubService) Get(_ context.Context, _ int64) (*models.WalletInfo, error) {
	return s.info, nil
}

func (s *stubService) Disconnect(_ context.Context, _ int64) error {
	return nil
}

func testRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("identity", &auth.Identity{ID: 111, FirstName: "Test"})
	})
	NewWalletHandler(svc).RegisterRoutes(router.Group("/"))
	return router
}

func TestConnectResponseCarriesSuccess(t *testing.T) {
	svc := &stubService{}
	router := testRouter(svc)

	body := `{"address":"0:0000000000000000000000000000000000000000000000000000000000000000","walletApp":"tonkeeper"}`
	req := httptest.NewRequest(http.MethodPost, "/wallet", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp, "success")
	assert.Equal(t, "true", string(resp["success"]))
	assert.Contains(t, resp, "wallet")

	require.NotNil(t, svc.link)
	assert.Equal(t, int64(111), svc.link.UserID, "link must be keyed by the verified identity")
}

func TestConnectRequiresAddress(t *testing.T) {
	router := testRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/wallet", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReturnsInfo(t *testing.T) {
	router := testRouter(&stubService{info: &models.WalletInfo{
		Address: "0:abc", IsConnected: true, BalanceTON: "1.354",
	}})

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balanceTon":"1.354"`)
}

func TestDisconnect(t *testing.T) {
	router := testRouter(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/wallet", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
