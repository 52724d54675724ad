// internal/services/storefront.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/models"
)

var (
	ErrCartLocked       = errors.New("cart is locked by a pending checkout")
	ErrPaymentArtifact  = errors.New("payment artifact generation failed")
	ErrUnknownAction    = errors.New("unknown storefront action")
	ErrCheckoutNotFound = errors.New("checkout not found")
)

type Action string

const (
	ActionSetCategory    Action = "set_category"
	ActionSearch         Action = "search"
	ActionAddToCart      Action = "add_to_cart"
	ActionRemoveFromCart Action = "remove_from_cart"
	ActionCheckout       Action = "checkout"
	ActionCancelCheckout Action = "cancel_checkout"
)

// Command is a user intent. Only the fields relevant to Action are read.
type Command struct {
	Action    Action
	Category  string
	Query     string
	ProductID int
	Index     int
}

type Result struct {
	Changed   bool
	CartCount int
	Checkout  *Checkout
}

type StorefrontSettings struct {
	Multiplier      decimal.Decimal
	MerchantName    string
	CurrencySymbol  string
	SettlementDelay time.Duration
	SeedOrders      bool
}

type StorefrontDeps struct {
	Catalog   *CatalogService
	Payments  PaymentArtifactGenerator
	Scheduler Scheduler
	Notifier  Notifier
	Orders    OrderRepository
	Now       func() time.Time
	Settings  StorefrontSettings
}

// Storefront is the state of one shopper: filter state, cart, order ledger and
// the current checkout. Every transition runs to completion under mu.
type Storefront struct {
	ID uuid.UUID

	deps StorefrontDeps

	mu       sync.Mutex
	category string
	query    string
	cart     *Cart
	ledger   *OrderLedger
	checkout *Checkout
}

type CatalogView struct {
	Category string           `json:"category"`
	Query    string           `json:"query"`
	Products []models.Product `json:"products"`
	Stats    CatalogStats     `json:"stats"`
}

type CartView struct {
	Lines  []CartLine      `json:"lines"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Locked bool            `json:"locked"`
}

var dispatchTable = map[Action]func(*Storefront, context.Context, Command) (Result, error){
	ActionSetCategory:    (*Storefront).setCategory,
	ActionSearch:         (*Storefront).search,
	ActionAddToCart:      (*Storefront).addToCart,
	ActionRemoveFromCart: (*Storefront).removeFromCart,
	ActionCheckout:       (*Storefront).startCheckout,
	ActionCancelCheckout: (*Storefront).cancelCheckout,
}

func NewStorefront(id uuid.UUID, deps StorefrontDeps) *Storefront {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}

	var seed []models.Order
	if deps.Settings.SeedOrders {
		seed = SeedOrders()
	}

	return &Storefront{
		ID:       id,
		deps:     deps,
		category: models.CategoryAll,
		cart:     NewCart(deps.Settings.Multiplier),
		ledger:   NewOrderLedger(deps.Now, seed...),
	}
}

func (s *Storefront) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	handler, ok := dispatchTable[cmd.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := handler(s, ctx, cmd)

	entry := logrus.WithFields(logrus.Fields{
		"session_id": s.ID,
		"action":     cmd.Action,
		"changed":    result.Changed,
	})
	if err != nil {
		entry.WithError(err).Debug("Storefront action rejected")
	} else {
		entry.Debug("Storefront action applied")
	}

	return result, err
}

func (s *Storefront) setCategory(_ context.Context, cmd Command) (Result, error) {
	category := cmd.Category
	if category == "" {
		category = models.CategoryAll
	}
	changed := category != s.category
	s.category = category
	return Result{Changed: changed, CartCount: s.cart.Len()}, nil
}

func (s *Storefront) search(_ context.Context, cmd Command) (Result, error) {
	changed := cmd.Query != s.query
	s.query = cmd.Query
	return Result{Changed: changed, CartCount: s.cart.Len()}, nil
}

func (s *Storefront) addToCart(_ context.Context, cmd Command) (Result, error) {
	if s.cartLocked() {
		return Result{CartCount: s.cart.Len()}, ErrCartLocked
	}

	product, err := s.deps.Catalog.Find(cmd.ProductID)
	if err != nil {
		return Result{CartCount: s.cart.Len()}, err
	}

	count := s.cart.Add(product)
	s.notify(i18n.KeyCartItemAdded)
	return Result{Changed: true, CartCount: count}, nil
}

// removeFromCart removes by position; an invalid index leaves the cart as is.
func (s *Storefront) removeFromCart(_ context.Context, cmd Command) (Result, error) {
	if s.cartLocked() {
		return Result{CartCount: s.cart.Len()}, ErrCartLocked
	}

	removed := s.cart.RemoveAt(cmd.Index)
	return Result{Changed: removed, CartCount: s.cart.Len()}, nil
}

func (s *Storefront) cartLocked() bool {
	return s.checkout != nil && s.checkout.State == models.CheckoutStateAwaitingPayment
}

func (s *Storefront) notify(key string, args ...interface{}) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(s.ID, key, args...)
	}
}

// Catalog derives the displayed set and its stats from the current filter.
func (s *Storefront) Catalog() CatalogView {
	s.mu.Lock()
	category, query := s.category, s.query
	s.mu.Unlock()

	displayed := ApplyFilter(s.deps.Catalog.Products(), category, query)
	return CatalogView{
		Category: category,
		Query:    query,
		Products: displayed,
		Stats:    ComputeStats(displayed, s.deps.Settings.Multiplier),
	}
}

func (s *Storefront) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CartView{
		Lines:  s.cart.Lines(),
		Count:  s.cart.Len(),
		Total:  s.cart.Total(),
		Locked: s.cartLocked(),
	}
}

func (s *Storefront) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List()
}

func (s *Storefront) Order(id int) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(id)
}

// Checkout returns the current or most recent checkout.
func (s *Storefront) Checkout() (*Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkout == nil {
		return nil, ErrCheckoutNotFound
	}
	return s.checkout.clone(), nil
}

func (s *Storefront) Settings() StorefrontSettings {
	return s.deps.Settings
}

// Close cancels a pending checkout; used when the session expires.
func (s *Storefront) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cartLocked() {
		s.abandonCheckout(context.Background())
	}
}
