package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"subercraftex/config"
	"subercraftex/constants"
	"subercraftex/database/dbtest"
	"subercraftex/middleware"
	"subercraftex/models/service"
	"subercraftex/services/availability"
	bookingService "subercraftex/services/booking"
	"subercraftex/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-secret"

var clock = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type bookingBody struct {
	ID            uint   `json:"id"`
	BookingNumber string `json:"booking_number"`
	Status        string `json:"status"`
	EndTime       string `json:"end_time"`
	CustomerID    string `json:"customer_id"`
}

type harness struct {
	app     *fiber.App
	service service.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := dbtest.New(t)
	cfg := config.BookingConfig{OpenTime: "09:00", CloseTime: "18:00", HorizonDays: 30, Timezone: "UTC"}

	bookings := bookingService.NewService(db, notification.NewDispatcher(notification.NewMemoryQueue(16)), cfg).
		WithClock(func() time.Time { return clock })
	calc, err := availability.NewCalculator(db, cfg)
	require.NoError(t, err)
	calc.WithClock(func() time.Time { return clock })

	svc := service.Service{Name: "Suit Fitting", Slug: "suit-fitting", Duration: service.DurationOneHour, Price: 45, IsActive: true}
	require.NoError(t, db.Create(&svc).Error)

	app := NewApp("*")
	SetupRoutes(app, Dependencies{DB: db, Bookings: bookings, Availability: calc, JWTSecret: secret})
	return &harness{app: app, service: svc}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Name:  "Ada",
		Email: sub + "@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func (h *harness) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (h *harness) reserve(t *testing.T, bearer, start string) (int, envelope) {
	t.Helper()
	return h.do(t, "POST", "/api/bookings", bearer, map[string]any{
		"serviceId":     h.service.ID,
		"customerName":  "Ada Lovelace",
		"customerEmail": "ada@example.com",
		"scheduledDate": "2025-03-10",
		"scheduledTime": start,
	})
}

func decodeBooking(t *testing.T, env envelope) bookingBody {
	t.Helper()
	var b bookingBody
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	status, env := h.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", env.Message)
}

func TestCreateBooking_GuestGets201(t *testing.T) {
	h := newHarness(t)
	status, env := h.reserve(t, "", "14:00")
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	b := decodeBooking(t, env)
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "15:00", b.EndTime)
	assert.True(t, strings.HasPrefix(b.BookingNumber, "SCX-"))
	assert.Empty(t, b.CustomerID)
}

func TestCreateBooking_SlotTakenIs409WithMessage(t *testing.T) {
	h := newHarness(t)
	status, _ := h.reserve(t, "", "14:00")
	require.Equal(t, fiber.StatusCreated, status)

	status, env := h.reserve(t, token(t, "cust-2", constants.RoleCustomer), "14:00")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "This time slot is no longer available", env.Error)
}

func TestCreateBooking_UnpaddedTimeIs409(t *testing.T) {
	h := newHarness(t)
	status, _ := h.reserve(t, "", "09:00")
	require.Equal(t, fiber.StatusCreated, status)

	status, env := h.reserve(t, "", "9:00")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "This time slot is no longer available", env.Error)
}

func TestCreateBooking_ValidationAndUnknownService(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(t, "POST", "/api/bookings", "", map[string]any{
		"serviceId":    h.service.ID,
		"customerName": "Ada",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do(t, "POST", "/api/bookings", "", map[string]any{
		"serviceId":     9999,
		"customerName":  "Ada",
		"customerEmail": "ada@example.com",
		"scheduledDate": "2025-03-10",
		"scheduledTime": "10:00",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateBooking_BadTokenIs401(t *testing.T) {
	h := newHarness(t)
	status, _ := h.reserve(t, "not-a-jwt", "14:00")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestShowBooking_AccessRules(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	status, env := h.reserve(t, owner, "10:00")
	require.Equal(t, fiber.StatusCreated, status)
	b := decodeBooking(t, env)
	path := "/api/bookings/" + jsonNumber(b.ID)

	status, _ = h.do(t, "GET", path, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = h.do(t, "GET", path, token(t, "cust-2", constants.RoleCustomer), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = h.do(t, "GET", path, owner, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, b.BookingNumber, decodeBooking(t, env).BookingNumber)

	status, _ = h.do(t, "GET", path, token(t, "staff-1", constants.RoleTailor), nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = h.do(t, "GET", "/api/bookings/424242", owner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.do(t, "GET", "/api/bookings/abc", owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListBookings_AllRequiresStaff(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	_, _ = h.reserve(t, owner, "10:00")
	_, _ = h.reserve(t, "", "11:00")

	status, env := h.do(t, "GET", "/api/bookings", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine []bookingBody
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	status, _ = h.do(t, "GET", "/api/bookings?all=true", owner, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = h.do(t, "GET", "/api/bookings?all=true", token(t, "admin-1", constants.RoleAdmin), nil)
	require.Equal(t, fiber.StatusOK, status)
	var all []bookingBody
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)
}

func TestUpdateBooking_RescheduleAndEmptyBody(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	_, env := h.reserve(t, owner, "10:00")
	path := "/api/bookings/" + jsonNumber(decodeBooking(t, env).ID)

	status, _ := h.do(t, "PATCH", path, owner, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = h.do(t, "PATCH", path, owner, map[string]any{"scheduledTime": "16:00"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, "17:00", decodeBooking(t, env).EndTime)

	status, _ = h.do(t, "PATCH", path, owner, map[string]any{"status": "confirmed"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = h.do(t, "PATCH", path, token(t, "admin-1", constants.RoleAdmin), map[string]any{"status": "confirmed"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, "confirmed", decodeBooking(t, env).Status)
}

func TestCancelBooking_TwiceIs400(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	_, env := h.reserve(t, owner, "10:00")
	path := "/api/bookings/" + jsonNumber(decodeBooking(t, env).ID)

	status, env := h.do(t, "DELETE", path, owner, map[string]any{"reason": "travelling"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, "cancelled", decodeBooking(t, env).Status)

	status, _ = h.do(t, "DELETE", path, owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// The freed slot can be booked again.
	status, _ = h.reserve(t, "", "10:00")
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestQuoteRoutes_AdminOnly(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	_, env := h.reserve(t, owner, "10:00")
	path := "/api/bookings/" + jsonNumber(decodeBooking(t, env).ID)

	status, _ := h.do(t, "POST", path+"/quote", owner, map[string]any{"materialCost": 10, "laborCost": 20})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.do(t, "POST", path+"/quote/estimate", token(t, "admin-1", constants.RoleAdmin), nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestAcquireMaterials_AdminOnly(t *testing.T) {
	h := newHarness(t)
	owner := token(t, "cust-1", constants.RoleCustomer)
	_, env := h.reserve(t, owner, "10:00")
	path := "/api/bookings/" + jsonNumber(decodeBooking(t, env).ID) + "/materials/acquire"

	status, _ := h.do(t, "POST", path, owner, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	// The booking has no material lines, so there is nothing to acquire.
	status, _ = h.do(t, "POST", path, token(t, "admin-1", constants.RoleAdmin), map[string]any{"materialIds": []uint{}})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAvailability_ExcludesBookedSlot(t *testing.T) {
	h := newHarness(t)
	_, _ = h.reserve(t, "", "14:00")

	path := "/api/services/" + jsonNumber(h.service.ID) + "/availability?start=2025-03-10&end=2025-03-10"
	status, env := h.do(t, "GET", path, "", nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	var slots map[string][]string
	require.NoError(t, json.Unmarshal(env.Data, &slots))
	assert.Contains(t, slots["2025-03-10"], "13:00")
	assert.NotContains(t, slots["2025-03-10"], "14:00")

	status, _ = h.do(t, "GET", "/api/services/"+jsonNumber(h.service.ID)+"/availability?start=2025-03-10&end=2025-03-01", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
