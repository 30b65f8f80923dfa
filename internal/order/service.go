package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-api/internal/product"
)

var (
	ErrNoItems           = errors.New("items list is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict means a competing placement kept changing the product
	// quantity until the retry budget ran out. The caller may retry.
	ErrConflict = errors.New("conflicting stock update")
)

// ItemError points at the offending entry of a placement request.
type ItemError struct {
	Index  int
	Reason string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

// StockPolicy decides what happens when a deduction would drive a product's
// quantity below zero.
type StockPolicy int

const (
	// PolicyReject fails the placement with ErrInsufficientStock.
	PolicyReject StockPolicy = iota
	// PolicyClamp floors the resulting quantity at zero.
	PolicyClamp
	// PolicyAllow lets the quantity go negative, like the legacy system did.
	PolicyAllow
)

func ParsePolicy(s string) (StockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return PolicyReject, nil
	case "clamp":
		return PolicyClamp, nil
	case "allow":
		return PolicyAllow, nil
	}
	return PolicyReject, fmt.Errorf("unknown stock policy %q", s)
}

const defaultMaxRetries = 3

type Options struct {
	Policy StockPolicy
	// MaxRetries bounds the re-read-and-retry loop on a quantity CAS miss.
	MaxRetries int
}

// Service places orders. All writes of one placement go through a single
// store transaction.
type Service struct {
	store    Store
	products product.Repository
	policy   StockPolicy
	retries  int
}

func NewService(store Store, products product.Repository, opts Options) *Service {
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	return &Service{store: store, products: products, policy: opts.Policy, retries: retries}
}

// PlaceOrder creates the order header, then walks the items in submission
// order: loads the product inside the transaction, deducts the requested
// quantity and records a line. Any failure rolls the whole placement back.
func (s *Service) PlaceOrder(ctx context.Context, customerName, address string, items []ItemRequest) (*Receipt, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	o := Order{
		ID:           uuid.NewString(),
		CustomerName: customerName,
		Address:      address,
		Total:        "0",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.InsertOrder(ctx, &o); err != nil {
		return nil, err
	}

	total := decimal.Zero
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		p, err := s.deduct(ctx, tx, it.ProductID, it.Quantity)
		if err != nil {
			return nil, err
		}

		line := Line{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
			CreatedAt: now,
		}
		if err := tx.InsertLine(ctx, &line); err != nil {
			return nil, err
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s has non-numeric price %q", p.ID, p.Price)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		lines = append(lines, ReceiptLine{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
	}

	o.Total = total.String()
	if err := tx.UpdateOrderTotal(ctx, o.ID, o.Total); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &Receipt{Order: o, Lines: lines}, nil
}

// deduct runs the read-compute-CAS loop for one item. A CAS miss means a
// concurrent placement touched the same product; re-read and try again, up
// to the retry budget.
func (s *Service) deduct(ctx context.Context, tx Tx, productID string, qty int) (*product.Product, error) {
	p, err := tx.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, product.ErrNotFound)
		}
		return nil, err
	}
	for attempt := 0; attempt <= s.retries; attempt++ {
		target, err := s.nextQuantity(p.Quantity, qty)
		if err != nil {
			return nil, err
		}
		ok, err := tx.UpdateProductQuantity(ctx, p.ID, p.Quantity, target)
		if err != nil {
			return nil, err
		}
		if ok {
			p.Quantity = target
			return p, nil
		}
		if p, err = tx.GetProduct(ctx, productID); err != nil {
			return nil, err
		}
	}
	return nil, ErrConflict
}

func (s *Service) nextQuantity(have, want int) (int, error) {
	switch s.policy {
	case PolicyClamp:
		if have < want {
			return 0, nil
		}
		return have - want, nil
	case PolicyAllow:
		return have - want, nil
	default:
		if have < want {
			return 0, ErrInsufficientStock
		}
		return have - want, nil
	}
}

// GetOrder loads a placed order and joins the current product detail onto
// each line. Lines keep their snapshot price even if the product changed.
func (s *Service) GetOrder(ctx context.Context, id string) (*Receipt, error) {
	o, lines, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ReceiptLine, 0, len(lines))
	for _, l := range lines {
		rl := ReceiptLine{ProductID: l.ProductID, Price: l.Price, Quantity: l.Quantity}
		if p, err := s.products.GetByID(ctx, l.ProductID); err == nil {
			rl.Name = p.Name
			rl.Image = p.Image
		}
		out = append(out, rl)
	}
	return &Receipt{Order: *o, Lines: out}, nil
}

func validateItems(items []ItemRequest) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return &ItemError{Index: i, Reason: "product id is required"}
		}
		if it.Quantity <= 0 {
			return &ItemError{Index: i, Reason: "quantity must be positive"}
		}
	}
	return nil
}
