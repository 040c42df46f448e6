package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpetrenko/storefront/internal/models"
	"github.com/mpetrenko/storefront/internal/payment"
	"github.com/mpetrenko/storefront/internal/repo"
	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/pkg/tokens"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Store   *repo.GormRepo
	Cart    *CartHTTP
	Order   *OrderHTTP
	Product *ProductHTTP
	CartSvc *service.CartService
	Charger *payment.Mock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	store := repo.New(db)
	charger := &payment.Mock{}

	catalogSvc := &service.CatalogService{Repo: store}
	cartSvc := &service.CartService{Repo: store}
	orderSvc := &service.OrderService{
		Cart:    store,
		Catalog: catalogSvc,
		Orders:  store,
		Charger: charger,
	}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		Store:   store,
		Cart:    &CartHTTP{Svc: cartSvc},
		Order:   &OrderHTTP{Svc: orderSvc},
		Product: &ProductHTTP{Svc: catalogSvc},
		CartSvc: cartSvc,
		Charger: charger,
	}
}

func (env *testEnv) seedProduct(name string, price int64, stock uint) *models.Product {
	env.T.Helper()
	prod := models.Product{Name: name, Description: name, Price: price, Stock: stock}
	require.NoError(env.T, env.Store.DB.Create(&prod).Error)
	return &prod
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser plants parsed access claims the way the JWT middleware would.
func asUser(c echo.Context, userID uint, role string) {
	c.Set("user", &jwt.Token{
		Claims: &tokens.AccessClaims{
			Role: role,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: fmt.Sprint(userID),
			},
		},
		Valid: true,
	})
}

func requireEnvelope(t *testing.T, err error, status int) ErrorEnvelope {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, status, he.Code)

	env, ok := he.Message.(ErrorEnvelope)
	require.True(t, ok, "error message must be the envelope shape")
	require.Equal(t, status, env.Status)
	require.NotEmpty(t, env.Errors)
	return env
}
