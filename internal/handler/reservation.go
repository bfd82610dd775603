package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/queue"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

// EventPublisher delivers reservation events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

// publishTimeout is the deadline handed to the publisher, dial and
// handshake included.
const publishTimeout = 2 * time.Second

// ReservationHandler serves the seat map and reservation endpoints.
// Events are published after the registry has committed the change;
// publish failures are logged here and never reach the caller.
type ReservationHandler struct {
	Registry  *repository.ReservationRegistry
	Publisher EventPublisher
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewReservationHandler wires a handler around registry.  A nil
// publisher is replaced with a no-op.
func NewReservationHandler(registry *repository.ReservationRegistry, publisher EventPublisher, logger *slog.Logger) *ReservationHandler {
	if registry == nil {
		panic("nil registry passed to NewReservationHandler")
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationHandler{
		Registry:  registry,
		Publisher: publisher,
		Logger:    logger,
		Now:       time.Now,
	}
}

type reservationRequest struct {
	PassengerName string `json:"passengerName"`
	SeatID        int    `json:"seatId"`
}

// ListSeats handles GET /api/seats.  It returns every seat in creation
// order and never fails.
func (h *ReservationHandler) ListSeats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Registry.ListSeats())
}

// CreateReservation handles POST /api/reservations.  The body must be a
// JSON object with passengerName and seatId.  A missing or taken seat
// yields 409 Conflict.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var body reservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	res, err := h.Registry.Reserve(body.PassengerName, body.SeatID)
	switch {
	case errors.Is(err, repository.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Seat is already reserved or does not exist."})
	case err != nil:
		h.Logger.Error("reserve failed", "seat_id", body.SeatID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	h.Logger.Info("reservation created", "pnr", res.Code, "seat_id", res.SeatID)
	h.publish(c.Request().Context(), queue.EventReservationCreated, res)
	return c.JSON(http.StatusOK, res)
}

// CancelReservation handles DELETE /api/reservations/:pnr.  Unknown
// codes yield 404 Not Found.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	pnr := c.Param("pnr")
	res, err := h.Registry.Cancel(pnr)
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Reservation not found."})
	case err != nil:
		h.Logger.Error("cancel failed", "pnr", pnr, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	h.Logger.Info("reservation cancelled", "pnr", res.Code, "seat_id", res.SeatID)
	h.publish(c.Request().Context(), queue.EventReservationCancelled, res)
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation " + pnr + " cancelled successfully."})
}

// GetReservation handles GET /api/reservations/:pnr.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	res, err := h.Registry.Find(c.Param("pnr"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Reservation not found."})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) publish(ctx context.Context, typ string, res model.Reservation) {
	seat, err := h.Registry.Seat(res.SeatID)
	if err != nil {
		h.Logger.Warn("event skipped: seat lookup failed", "seat_id", res.SeatID, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.Publisher.Publish(ctx, queue.NewReservationEvent(typ, res, seat, h.Now())); err != nil {
		h.Logger.Warn("event publish failed", "type", typ, "pnr", res.Code, "error", err)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.ReservationEvent) error { return nil }
