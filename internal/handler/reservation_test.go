package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/queue"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

type fakePublisher struct {
	mu        sync.Mutex
	events    []queue.ReservationEvent
	deadlines []time.Duration
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, ev queue.ReservationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	if d, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(d))
	}
	return f.err
}

type fixture struct {
	e     *echo.Echo
	seats *repository.SeatStore
	pub   *fakePublisher
	logs  bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{e: echo.New(), seats: repository.NewSeatStore(40), pub: &fakePublisher{}}
	reg := repository.NewReservationRegistry(f.seats, nil)
	logger := slog.New(slog.NewTextHandler(&f.logs, nil))
	h := NewReservationHandler(reg, f.pub, logger)
	h.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	f.e.GET("/api/seats", h.ListSeats)
	f.e.POST("/api/reservations", h.CreateReservation)
	f.e.GET("/api/reservations/:pnr", h.GetReservation)
	f.e.DELETE("/api/reservations/:pnr", h.CancelReservation)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestListSeats(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/seats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var raw []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 40 {
		t.Fatalf("expected 40 seats, got %d", len(raw))
	}
	first := raw[0]
	if first["id"] != 1.0 || first["number"] != "1A" || first["isReserved"] != false || first["type"] != "window" || first["price"] != 50.0 {
		t.Fatalf("unexpected first seat %v", first)
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/reservations", `{"passengerName":"Alice","seatId":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[model.Reservation](t, rec)
	if res.SeatID != 2 || res.PassengerName != "Alice" || res.Code == "" {
		t.Fatalf("unexpected reservation %+v", res)
	}
	if !strings.Contains(rec.Body.String(), `"pnr":"`+res.Code+`"`) {
		t.Fatalf("response should carry pnr: %s", rec.Body.String())
	}
	if seat, _ := f.seats.FindByID(2); !seat.Reserved {
		t.Fatalf("seat 2 should be reserved")
	}
	if len(f.pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.pub.events))
	}
	ev := f.pub.events[0]
	if ev.Type != queue.EventReservationCreated || ev.PNR != res.Code || ev.SeatNumber != "1B" || ev.SeatType != model.CategoryAisle || ev.OccurredAt != "2025-01-02T03:04:05Z" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/reservations", `{"passengerName":"Alice","seatId":1}`)

	for _, body := range []string{
		`{"passengerName":"Bob","seatId":1}`,
		`{"passengerName":"Bob","seatId":41}`,
		`{"passengerName":"Bob"}`,
	} {
		rec := f.do(http.MethodPost, "/api/reservations", body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("%s: expected 409, got %d", body, rec.Code)
		}
		msg := decode[map[string]string](t, rec)
		if msg["message"] != "Seat is already reserved or does not exist." {
			t.Fatalf("unexpected message %v", msg)
		}
	}
	if len(f.pub.events) != 1 {
		t.Fatalf("failed reservations should not publish: %d events", len(f.pub.events))
	}
}

func TestCreateReservationBadBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/reservations", `{"seatId":"one"`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")
	rec := f.do(http.MethodPost, "/api/reservations", `{"passengerName":"Alice","seatId":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite publish failure, got %d", rec.Code)
	}
	if n := strings.Count(f.logs.String(), "broker down"); n != 1 {
		t.Fatalf("expected the publish failure logged once, got %d:\n%s", n, f.logs.String())
	}
}

func TestPublishGetsBoundedDeadline(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/reservations", `{"passengerName":"Alice","seatId":6}`)
	if len(f.pub.deadlines) != 1 {
		t.Fatalf("publisher should see a context deadline, got %d", len(f.pub.deadlines))
	}
	if d := f.pub.deadlines[0]; d <= 0 || d > publishTimeout {
		t.Fatalf("deadline %s outside (0, %s]", d, publishTimeout)
	}
}

func TestCancelAndLookup(t *testing.T) {
	f := newFixture(t)
	res := decode[model.Reservation](t, f.do(http.MethodPost, "/api/reservations", `{"passengerName":"Alice","seatId":1}`))

	if rec := f.do(http.MethodGet, "/api/reservations/"+res.Code, ""); rec.Code != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d", rec.Code)
	}

	rec := f.do(http.MethodDelete, "/api/reservations/"+res.Code, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", rec.Code)
	}
	msg := decode[map[string]string](t, rec)
	if msg["message"] != "Reservation "+res.Code+" cancelled successfully." {
		t.Fatalf("unexpected message %v", msg)
	}
	if seat, _ := f.seats.FindByID(1); seat.Reserved {
		t.Fatalf("seat 1 should be free")
	}
	if last := f.pub.events[len(f.pub.events)-1]; last.Type != queue.EventReservationCancelled {
		t.Fatalf("expected cancellation event, got %+v", last)
	}

	rec = f.do(http.MethodDelete, "/api/reservations/"+res.Code, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second cancel: expected 404, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec); msg["message"] != "Reservation not found." {
		t.Fatalf("unexpected message %v", msg)
	}
	if rec := f.do(http.MethodGet, "/api/reservations/"+res.Code, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("lookup after cancel: expected 404, got %d", rec.Code)
	}
}

func TestConcurrentCreateSameSeat(t *testing.T) {
	const attempts = 32
	f := newFixture(t)

	var wg sync.WaitGroup
	codes := make(chan int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- f.do(http.MethodPost, "/api/reservations", `{"passengerName":"racer","seatId":9}`).Code
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for c := range codes {
		counts[c]++
	}
	if counts[http.StatusOK] != 1 || counts[http.StatusConflict] != attempts-1 {
		t.Fatalf("expected one 200 and %d 409s, got %v", attempts-1, counts)
	}
}
