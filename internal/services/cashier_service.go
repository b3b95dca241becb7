package services

import (
	"context"
	"fmt"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// CartView is a cart together with its computed totals.
type CartView struct {
	*cart.Cart
	Totals         cart.Totals `json:"totals"`
	FormattedTotal string      `json:"formattedTotal"`
}

// CheckoutRequest carries what the till knows besides the cart contents.
type CheckoutRequest struct {
	CafeID        string               `json:"cafeId"`
	UserID        string               `json:"userId"`
	CustomerName  string               `json:"customerName"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

// CheckoutResult is the outcome of a successful checkout.
type CheckoutResult struct {
	Receipt        *cart.Receipt `json:"receipt"`
	Order          *models.Order `json:"order"`
	FormattedTotal string        `json:"formattedTotal"`
}

// CashierService runs the point-of-sale flow: cart sessions priced from the menu and
// checked out into orders.
type CashierService struct {
	carts  cart.Store
	menus  repositories.MenuRepository
	orders *OrderService
}

// NewCashierService creates a new CashierService.
func NewCashierService(carts cart.Store, menus repositories.MenuRepository, orders *OrderService) *CashierService {
	return &CashierService{carts: carts, menus: menus, orders: orders}
}

// Products lists the menu items that can be sold right now.
func (s *CashierService) Products(ctx context.Context, query, category string) ([]models.Menu, error) {
	return NewMenuService(s.menus).ListAvailable(ctx, query, category)
}

// NewCart opens an empty cart session.
func (s *CashierService) NewCart(ctx context.Context) (*CartView, error) {
	c := cart.New()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return view(c), nil
}

func (s *CashierService) GetCart(ctx context.Context, id string) (*CartView, error) {
	c, err := s.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(c), nil
}

// DiscardCart drops a cart session without checking it out.
func (s *CashierService) DiscardCart(ctx context.Context, id string) error {
	return s.carts.Delete(ctx, id)
}

// AddItem adds one unit of a menu item. The item must exist and be available.
func (s *CashierService) AddItem(ctx context.Context, cartID, menuID string) (*CartView, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	menu, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if !menu.IsAvailable {
		return nil, fmt.Errorf("%w: menu %s is not available", ErrValidation, menu.Name)
	}
	c.AddItem(cart.Product{
		ID:       menu.ID,
		Name:     menu.Name,
		Price:    menu.UnitPrice(),
		Category: string(menu.Category),
	})
	return s.save(ctx, c)
}

// SetQuantity sets the quantity of a line; zero or less removes it.
func (s *CashierService) SetQuantity(ctx context.Context, cartID, menuID string, quantity int) (*CartView, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(menuID, quantity) {
		return nil, fmt.Errorf("menu %s: %w", menuID, cart.ErrItemNotFound)
	}
	return s.save(ctx, c)
}

func (s *CashierService) RemoveItem(ctx context.Context, cartID, menuID string) (*CartView, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(menuID)
	return s.save(ctx, c)
}

// Checkout prices the cart, persists it as a confirmed and paid order and closes the
// session. The session survives when the order cannot be stored.
func (s *CashierService) Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*CheckoutResult, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	receipt, err := c.Checkout(req.CustomerName, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	order := models.NewOrder()
	order.CafeID = req.CafeID
	order.UserID = req.UserID
	order.CustomerName = receipt.Customer
	order.Items = cart.OrderItems(receipt.Items)
	order.Tax = receipt.Tax
	order.Status = models.StatusConfirmed
	order.PaymentMethod = receipt.PaymentMethod
	order.PaymentStatus = models.PaymentPaid
	order.Notes = req.Notes
	order.OrderDate = receipt.Timestamp

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		log.WithError(err).WithField("cart_id", cartID).Warn("Failed to delete checked out cart")
	}

	log.WithFields(log.Fields{
		"order_id": placed.ID,
		"total":    receipt.Total,
		"payment":  receipt.PaymentMethod,
	}).Info("Cashier checkout completed")
	return &CheckoutResult{
		Receipt:        receipt,
		Order:          placed,
		FormattedTotal: cart.FormatRupiah(receipt.Total),
	}, nil
}

func (s *CashierService) save(ctx context.Context, c *cart.Cart) (*CartView, error) {
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return view(c), nil
}

func view(c *cart.Cart) *CartView {
	totals := c.Totals()
	return &CartView{Cart: c, Totals: totals, FormattedTotal: cart.FormatRupiah(totals.Total)}
}
