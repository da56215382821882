package customers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	handler := NewHandler(slog.Default(), newTestService(repo))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, repo
}

func TestCreateCustomerEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	body := `{"customer_name":"Abebe","phone_number":"0911000000","total_amount":45000,"purchase_date":"2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "Pending", created.PaymentStatus)
	require.Equal(t, "New", created.CustomerType)
	require.Len(t, repo.linkedTo(created.ID), 1)
}

func TestCreateCustomerValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"phone_number":"0911"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCustomerNegativeAmount(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"customer_name":"Abebe","phone_number":"0911000000","total_amount":-5}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomerNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/customers/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Not Found")
}

func TestUpdateCustomerEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	create := httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"customer_name":"Abebe","phone_number":"0911000000","total_amount":100}`))
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, create)
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created Customer
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	update := httptest.NewRequest(http.MethodPut, "/customers/1",
		strings.NewReader(`{"total_amount":250}`))
	updateRec := httptest.NewRecorder()
	router.ServeHTTP(updateRec, update)
	require.Equal(t, http.StatusOK, updateRec.Code)

	var updated Customer
	require.NoError(t, json.Unmarshal(updateRec.Body.Bytes(), &updated))
	require.Equal(t, 250.0, updated.TotalAmount)
	require.Equal(t, "Abebe", updated.CustomerName, "unset fields keep their values")

	linked := repo.linkedTo(created.ID)
	require.Len(t, linked, 1)
	require.Equal(t, 250.0, linked[0].entry.Amount)
}

func TestDeleteCustomerEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	create := httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"customer_name":"Abebe","phone_number":"0911000000"}`))
	router.ServeHTTP(httptest.NewRecorder(), create)

	del := httptest.NewRequest(http.MethodDelete, "/customers/1", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, del)
	require.Equal(t, http.StatusOK, delRec.Code)

	get := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, get)
	require.Equal(t, http.StatusNotFound, getRec.Code)
}
