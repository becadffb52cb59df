package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/mykafka"
)

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Entry{},
		&models.Client{},
		&models.Credit{},
		&models.CreditMovement{},
		&models.MovementItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.ActivityLog{},
		&models.User{},
		&models.RefreshToken{},
	))
	return &testEnv{E: echo.New(), DB: db}
}

// doJSON builds a request/recorder pair with a JSON body already bound
// to an echo context, mirroring how the handlers see real traffic.
func (env *testEnv) doJSON(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) producer() *mykafka.Producer {
	return &mykafka.Producer{}
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}
