package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafeconnect/internal/events"
	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"

	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const (
	publishTimeout = 5 * time.Second
	qrCodeSize     = 256
)

// EventPublisher delivers order events to the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}

// OrderFilter narrows ListOrders. UserID wins over CafeID; Status applies to both.
type OrderFilter struct {
	UserID string
	CafeID string
	Status models.OrderStatus
}

// OrderService handles business logic related to orders.
type OrderService struct {
	repo      repositories.OrderRepository
	cafes     repositories.CafeRepository
	users     repositories.UserRepository
	publisher EventPublisher // nil disables publishing
	publicURL string
	orders    catalog[models.Order, *models.Order]
}

// NewOrderService creates a new OrderService. publicURL is the externally reachable
// API base used in receipt QR codes.
func NewOrderService(
	repo repositories.OrderRepository,
	cafes repositories.CafeRepository,
	users repositories.UserRepository,
	publisher EventPublisher,
	publicURL string,
) *OrderService {
	s := &OrderService{
		repo:      repo,
		cafes:     cafes,
		users:     users,
		publisher: publisher,
		publicURL: publicURL,
	}
	s.orders = catalog[models.Order, *models.Order]{
		repo:     repo,
		newDoc:   models.NewOrder,
		prepare:  s.prepare,
		finalize: s.checkReferences,
	}
	return s
}

// prepare recomputes the total and guards the lifecycle on updates.
func (s *OrderService) prepare(_ context.Context, o, existing *models.Order) error {
	o.ComputeTotal()

	if existing == nil {
		if o.Status == models.StatusCompleted && o.CompletedAt == nil {
			now := models.Now()
			o.CompletedAt = &now
		}
		return nil
	}

	// tax is fixed at the till and never edited through the API
	o.Tax = existing.Tax
	o.CompletedAt = existing.CompletedAt
	if o.Status != existing.Status {
		if err := CanTransition(existing.Status, o.Status); err != nil {
			return err
		}
		if o.Status == models.StatusCompleted {
			now := models.Now()
			o.CompletedAt = &now
		}
	}
	if o.PaymentStatus != existing.PaymentStatus {
		return CanTransitionPayment(existing.PaymentStatus, o.PaymentStatus)
	}
	return nil
}

func (s *OrderService) checkReferences(ctx context.Context, o, existing *models.Order) error {
	if existing == nil || existing.CafeID != o.CafeID {
		if _, err := s.cafes.GetByID(ctx, o.CafeID); err != nil {
			return referenceError("cafe", o.CafeID, err)
		}
	}
	if existing == nil || existing.UserID != o.UserID {
		if _, err := s.users.GetByID(ctx, o.UserID); err != nil {
			return referenceError("user", o.UserID, err)
		}
	}
	return nil
}

// referenceError reports a missing referenced document as a client error and passes
// storage failures through.
func referenceError(kind, id string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s %s does not exist", ErrInvalidReference, kind, id)
	}
	return err
}

// ListOrders returns orders matching filter, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var (
		orders []models.Order
		err    error
	)
	switch {
	case filter.UserID != "":
		orders, err = s.repo.GetByUserID(ctx, filter.UserID)
	case filter.CafeID != "":
		return s.repo.GetByCafeID(ctx, filter.CafeID, filter.Status)
	default:
		orders, err = s.repo.GetAll(ctx)
	}
	if err != nil || filter.Status == "" {
		return orders, err
	}
	matching := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == filter.Status {
			matching = append(matching, o)
		}
	}
	return matching, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.get(ctx, id)
}

// CreateOrder creates an order from a request payload. The total is computed from the
// items and tax is zero; only the till charges tax.
func (s *OrderService) CreateOrder(ctx context.Context, decode Decoder) (*models.Order, error) {
	order, err := s.orders.create(ctx, func(dst any) error {
		if err := decode(dst); err != nil {
			return err
		}
		dst.(*models.Order).Tax = 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// PlaceOrder stores an order assembled in code, such as a cashier checkout, keeping its tax.
func (s *OrderService) PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = ""
	placed, err := s.orders.insert(ctx, order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCreated, placed)
	return placed, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id string, mode UpdateMode, decode Decoder) (*models.Order, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.update(ctx, id, mode, decode)
	if err != nil {
		return nil, err
	}
	if order.Status != previous.Status {
		s.publish(ctx, events.OrderStatusChanged, order)
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.remove(ctx, id)
}

// UpdateStatus moves an order along its lifecycle. Staying in the current status is
// not a transition and is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.mutate(ctx, id, func(o *models.Order) error {
		if o.Status == status {
			return CanTransition(o.Status, status)
		}
		o.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

// UpdatePayment moves an order's payment status: unpaid to paid, paid to refunded.
func (s *OrderService) UpdatePayment(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return s.mutate(ctx, id, func(o *models.Order) error {
		if o.PaymentStatus == status {
			return CanTransitionPayment(o.PaymentStatus, status)
		}
		o.PaymentStatus = status
		return nil
	})
}

func (s *OrderService) mutate(ctx context.Context, id string, change func(*models.Order) error) (*models.Order, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := clone(existing)
	if err != nil {
		return nil, err
	}
	if err := change(order); err != nil {
		return nil, err
	}
	return s.orders.replace(ctx, order, existing)
}

// ReceiptURL is the public address of an order, encoded in its receipt QR code.
func (s *OrderService) ReceiptURL(id string) string {
	return fmt.Sprintf("%s/orders/%s", s.publicURL, id)
}

// ReceiptQRCode renders a PNG QR code linking to the order.
func (s *OrderService) ReceiptQRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.ReceiptURL(id), qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// publish sends an order event. Failures are logged and never reach the caller.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Warn("Failed to publish order event")
		return
	}
	log.WithFields(log.Fields{"order_id": order.ID, "event": eventType}).Debug("Published order event")
}
