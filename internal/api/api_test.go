package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter() *gin.Engine {
	return NewRouter(&Services{
		ReportService: service.NewReportService(nil, nil, nil, nil),
	}, nil)
}

const ordersCSV = `Name,Created at,Paid at,Lineitem name,Lineitem price,Lineitem quantity,Financial Status,Lineitem fulfillment status,Vendor,Billing Name,Shipping Name
#100,2024-03-01 10:00:00,2024-03-01 10:00:00,Truffle Box,25.00,2,paid,fulfilled,Nu Chocolat,Jane Doe,Jane Doe
#101,2024-03-02 11:00:00,2024-03-02 11:00:00,Nu Chocolat Local Delivery,0.00,1,paid,fulfilled,Myti,Jane Doe,Jane Doe
`

func multipartOrders(t *testing.T, csvBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("orders", "orders_export.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestGenerateReportsEndpoint(t *testing.T) {
	router := testRouter()

	body, contentType := multipartOrders(t, ordersCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var bundle domain.ReportBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	require.Len(t, bundle.Shops, 1)
	assert.Equal(t, "Nu Chocolat", bundle.Shops[0].ShopName)
	assert.Equal(t, 2, bundle.LineCount)
	// The delivery line lands in both the shop report and the delivery report.
	assert.Len(t, bundle.Shops[0].Orders, 2)
	assert.Equal(t, 1, bundle.Delivery.Summary.TotalDeliveries)
}

func TestGenerateReportsEndpointMissingFile(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
