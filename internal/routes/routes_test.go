package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	"github.com/pawfectpets/pawfect-api/internal/config"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/models"
	"github.com/pawfectpets/pawfect-api/internal/testutil"
	ucOrder "github.com/pawfectpets/pawfect-api/internal/usecase/order"
)

var now = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

// ---- Fakes ----

type syncAudit struct{ l *audit.Logger }

func (s syncAudit) Dispatch(ev audit.Event) { _ = s.l.Log(ev) }

type fakeStorage struct{ keys []string }

func (f *fakeStorage) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.example/" + key, nil
}

type fakeLLM struct{}

func (fakeLLM) Complete(context.Context, string, string) (string, error) {
	return "## 2-Week Starter Plan", nil
}

type fakeGateway struct {
	orderID uint
	status  string
}

func (g *fakeGateway) CreateCheckout(_ context.Context, o *models.Order) (*ucOrder.Checkout, error) {
	return &ucOrder.Checkout{PreferenceID: "pref", URL: "https://pay.example/pref"}, nil
}

func (g *fakeGateway) PaymentStatus(context.Context, string) (uint, string, error) {
	return g.orderID, g.status, nil
}

// ---- Harness ----

type app struct {
	t       *testing.T
	db      *gorm.DB
	r       *gin.Engine
	storage *fakeStorage
	gateway *fakeGateway
}

type resp struct {
	Code int
	Body []byte
}

func (r resp) JSON(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func newApp(t *testing.T, withIntegrations bool) *app {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	a := &app{t: t, db: db, r: gin.New(), storage: &fakeStorage{}, gateway: &fakeGateway{status: "approved"}}

	d := Deps{
		DB: db,
		Config: &config.Config{
			JWTSecret:          "test-secret",
			JWTExpires:         time.Hour,
			Timezone:           "UTC",
			RateLimitPerMinute: 100,
		},
		Log:     zap.NewNop(),
		Audit:   syncAudit{l: audit.New(db)},
		Metrics: metrics.New(),
		Clock:   func() time.Time { return now },
	}
	if withIntegrations {
		d.Storage = a.storage
		d.Payments = a.gateway
		d.LLM = fakeLLM{}
	}

	RegisterRoutes(a.r, d)
	return a
}

func (a *app) do(method, path, token string, body any) resp {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return resp{Code: w.Code, Body: w.Body.Bytes()}
}

func (a *app) register(username string) (string, uint) {
	a.t.Helper()

	res := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Body))

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	res.JSON(a.t, &out)
	return out.Token, out.User.ID
}

func (a *app) admin() string {
	a.t.Helper()

	token, id := a.register("boss")
	require.NoError(a.t, a.db.Model(&models.User{}).Where("id = ?", id).Update("role", models.RoleAdmin).Error)
	return token
}

// ---- Auth ----

func TestAuthFlow(t *testing.T) {
	a := newApp(t, false)

	token, _ := a.register("alice")

	res := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "already exists")

	res = a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "al", "email": "nope", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	var verr struct {
		Errors []struct{ Field, Message string } `json:"errors"`
	}
	res.JSON(t, &verr)
	assert.Len(t, verr.Errors, 3)

	res = a.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials","code":"invalid_credentials"}`, string(res.Body))

	res = a.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ALICE@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, res.Code)

	res = a.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), `"username":"alice"`)
	assert.NotContains(t, string(res.Body), "password")

	res = a.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

// ---- Catalog ----

func TestProductAdminSurface(t *testing.T) {
	a := newApp(t, false)
	userToken, _ := a.register("carol")
	adminToken := a.admin()

	body := map[string]any{
		"name": "Chew Toy", "description": "Durable", "price": "12.50", "category": "Toys", "stock": 4,
	}

	res := a.do(http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = a.do(http.MethodPost, "/api/products", userToken, body)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodPost, "/api/products", adminToken, body)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var p struct {
		ID    uint   `json:"id"`
		Price string `json:"price"`
		Image string `json:"image"`
	}
	res.JSON(t, &p)
	assert.Equal(t, "12.5", p.Price)
	assert.Equal(t, models.PlaceholderImage, p.Image)

	res = a.do(http.MethodPost, "/api/products", adminToken, map[string]any{
		"name": "Bad", "description": "x", "price": -1, "category": "Toys", "stock": 1,
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "price")

	res = a.do(http.MethodPut, "/api/products/999", adminToken, map[string]any{"stock": 3})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodPut, "/api/products/"+itoa(p.ID), adminToken, map[string]any{"stock": 9})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), `"stock":9`)

	res = a.do(http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), "Chew Toy")

	res = a.do(http.MethodDelete, "/api/products/"+itoa(p.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = a.do(http.MethodGet, "/api/products/"+itoa(p.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.JSONEq(t, `{"error":"Product not found","code":"product_not_found"}`, string(res.Body))

	var logs int64
	a.db.Model(&models.AuditLog{}).Where("entity = ?", "product").Count(&logs)
	assert.EqualValues(t, 3, logs)
}

func TestServiceCategoryIsEnforced(t *testing.T) {
	a := newApp(t, false)
	adminToken := a.admin()

	res := a.do(http.MethodPost, "/api/services", adminToken, map[string]any{
		"name": "Swim", "description": "Pool time", "price": 10, "duration": 30, "category": "swimming",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "Invalid category")

	res = a.do(http.MethodPost, "/api/services", adminToken, map[string]any{
		"name": "Sitting", "description": "At home", "price": 25, "duration": 120, "category": "pet_sitting",
	})
	assert.Equal(t, http.StatusCreated, res.Code)

	res = a.do(http.MethodGet, "/api/services", "", nil)
	assert.Contains(t, string(res.Body), "pet_sitting")
}

// ---- Bookings ----

func TestBookingFlow(t *testing.T) {
	a := newApp(t, false)
	token, _ := a.register("dora")
	otherToken, _ := a.register("eve")
	boarding := testutil.CreateService(t, a.db, "boarding", "40.00")

	// boarding without end date
	res := a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": boarding.ID, "date": "2030-06-10", "time": "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "Boarding services require an end date")

	res = a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": boarding.ID, "date": "not a date", "time": "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "Valid date is required")

	res = a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": 999, "date": "2030-06-10", "time": "09:00",
	})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": boarding.ID, "date": "2030-06-10", "endDate": "2030-06-12", "time": "09:00", "notes": "Needs meds",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var b struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		EndDate string `json:"endDate"`
		Service struct {
			Category string `json:"category"`
		} `json:"service"`
	}
	res.JSON(t, &b)
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "boarding", b.Service.Category)
	path := "/api/bookings/" + itoa(b.ID)

	// end date moved before the start, then cleared on a boarding stay
	res = a.do(http.MethodPut, path, token, map[string]any{"endDate": "2030-06-09"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "End date must be after start date")

	res = a.do(http.MethodPut, path, token, map[string]any{"endDate": nil})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = a.do(http.MethodPut, path, token, map[string]any{"endDate": "  "})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), "Boarding services require an end date")

	res = a.do(http.MethodPut, path, token, map[string]any{"time": "11:30"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), `"time":"11:30"`)

	// another user sees the booking as missing
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, path, otherToken, map[string]any{"time": "08:00"}).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, otherToken, nil).Code)

	res = a.do(http.MethodGet, "/api/bookings", otherToken, nil)
	assert.JSONEq(t, `[]`, string(res.Body))

	res = a.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"message":"Booking cancelled successfully"}`, string(res.Body))

	res = a.do(http.MethodGet, path, token, nil)
	assert.Contains(t, string(res.Body), `"status":"cancelled"`)
}

func TestBlankEndDateClearsNonBoardingBooking(t *testing.T) {
	a := newApp(t, false)
	token, _ := a.register("gwen")
	walk := testutil.CreateService(t, a.db, "walking", "15.00")

	res := a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": walk.ID, "date": "2030-06-10", "endDate": "2030-06-11", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var b struct {
		ID      uint    `json:"id"`
		EndDate *string `json:"endDate"`
	}
	res.JSON(t, &b)
	require.NotNil(t, b.EndDate)

	res = a.do(http.MethodPut, "/api/bookings/"+itoa(b.ID), token, map[string]any{"endDate": ""})
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	assert.Contains(t, string(res.Body), `"endDate":null`)

	res = a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": walk.ID, "date": "2030-06-12", "endDate": "", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	assert.Contains(t, string(res.Body), `"endDate":null`)
}

func TestAdminSetsBookingStatus(t *testing.T) {
	a := newApp(t, false)
	token, _ := a.register("fay")
	adminToken := a.admin()
	walk := testutil.CreateService(t, a.db, "walking", "15.00")

	res := a.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"serviceId": walk.ID, "date": "2030-06-10T10:00:00Z", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	var b struct{ ID uint }
	res.JSON(t, &b)

	path := "/api/admin/bookings/" + itoa(b.ID) + "/status"
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, path, token, map[string]any{"status": "confirmed"}).Code)

	res = a.do(http.MethodPut, path, adminToken, map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), `"status":"confirmed"`)

	res = a.do(http.MethodPut, path, adminToken, map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

// ---- Orders ----

func TestOrderFlow(t *testing.T) {
	a := newApp(t, true)
	token, _ := a.register("gus")
	otherToken, _ := a.register("hal")
	leash := testutil.CreateProduct(t, a.db, "Leash", "10.00", 5)
	bed := testutil.CreateProduct(t, a.db, "Bed", "45.00", 1)

	// second line short of stock rolls back the first
	res := a.do(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{{"productId": leash.ID, "quantity": 2}, {"productId": bed.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{"error":"Insufficient stock for Bed","code":"insufficient_stock"}`, string(res.Body))
	assert.Equal(t, 5, testutil.ReloadProduct(t, a.db, leash.ID).Stock)

	res = a.do(http.MethodPost, "/api/orders", token, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = a.do(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{{"productId": 777, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, string(res.Body), "Product with ID 777 not found")

	res = a.do(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{{"productId": leash.ID, "quantity": 2}, {"productId": bed.ID, "quantity": 1}},
		"total": "0.01",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var o struct {
		ID    uint   `json:"id"`
		Total string `json:"total"`
		Items []struct {
			Price   string `json:"price"`
			Product struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"items"`
	}
	res.JSON(t, &o)
	assert.Equal(t, "65", o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Leash", o.Items[0].Product.Name)
	assert.Zero(t, testutil.ReloadProduct(t, a.db, bed.ID).Stock)

	path := "/api/orders/" + itoa(o.ID)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, token, nil).Code)

	res = a.do(http.MethodPost, path+"/checkout", token, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), "https://pay.example/pref")

	a.gateway.orderID = o.ID
	res = a.do(http.MethodPost, "/api/payments/webhook", "", map[string]any{"type": "payment", "data": map[string]any{"id": "123"}})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(a.do(http.MethodGet, path, token, nil).Body), `"status":"completed"`)
}

func TestCheckoutWithoutGateway(t *testing.T) {
	a := newApp(t, false)
	token, _ := a.register("ivy")
	p := testutil.CreateProduct(t, a.db, "Ball", "3.00", 2)

	res := a.do(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, res.Code)
	var o struct{ ID uint }
	res.JSON(t, &o)

	res = a.do(http.MethodPost, "/api/orders/"+itoa(o.ID)+"/checkout", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

// ---- Training guide ----

func TestTrainingGuide(t *testing.T) {
	profile := map[string]any{
		"name": "Rex", "ageMonths": 8, "energyLevel": "high", "environment": "house",
		"experienceLevel": "basic", "trainingGoals": []string{"sit"},
	}

	a := newApp(t, true)
	res := a.do(http.MethodPost, "/api/training-guide", "", profile)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"guide":"## 2-Week Starter Plan"}`, string(res.Body))

	res = a.do(http.MethodPost, "/api/training-guide", "", map[string]any{"name": "Rex", "ageMonths": 300})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, string(res.Body), `"errors"`)

	a = newApp(t, false)
	res = a.do(http.MethodPost, "/api/training-guide", "", profile)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, string(res.Body), "LLM service is not configured")
}

// ---- Media ----

func TestProductImageUpload(t *testing.T) {
	a := newApp(t, true)
	adminToken := a.admin()
	p := testutil.CreateProduct(t, a.db, "Hat", "9.00", 1)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 64, 32))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "hat.png")
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/"+itoa(p.ID)+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, a.storage.keys, 1)
	assert.Equal(t, "https://cdn.example/"+a.storage.keys[0], testutil.ReloadProduct(t, a.db, p.ID).Image)
}

// ---- Admin / ops ----

func TestAuditLogsListing(t *testing.T) {
	a := newApp(t, false)
	adminToken := a.admin()

	for _, name := range []string{"A", "B", "C"} {
		res := a.do(http.MethodPost, "/api/products", adminToken, map[string]any{
			"name": name, "description": "d", "price": 1, "category": "c", "stock": 1,
		})
		require.Equal(t, http.StatusCreated, res.Code)
	}

	res := a.do(http.MethodGet, "/api/admin/audit-logs?entity=product&limit=2", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var page struct {
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
		Data  []struct {
			Action string `json:"action"`
		} `json:"data"`
	}
	res.JSON(t, &page)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, "product_created", page.Data[0].Action)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t, false)

	for _, path := range []string{"/health", "/api/health"} {
		res := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, string(res.Body), `"status":"OK"`)
	}

	res := a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), "pawfect_http_requests_total")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
