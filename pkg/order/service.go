package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// PrefixProvider supplies the workspace's order number prefix. The settings
// service implements it.
type PrefixProvider interface {
	OrderPrefix(ctx context.Context, workspaceIdentity string) (string, error)
}

// CustomerChecker verifies that a customer belongs to a workspace. The
// customer service implements it.
type CustomerChecker interface {
	Exists(ctx context.Context, workspaceIdentity string, id uuid.UUID) error
}

// OrderService provides order operations for a workspace, including order
// number generation and status lifecycle enforcement.
type OrderService struct {
	repo      OrderRepository
	prefixes  PrefixProvider
	customers CustomerChecker
}

// NewOrderService creates a new order service
func NewOrderService(repo OrderRepository, prefixes PrefixProvider, customers CustomerChecker) *OrderService {
	return &OrderService{repo: repo, prefixes: prefixes, customers: customers}
}

// Create adds an order for a customer. The customer must exist in this
// workspace; a customer id from another workspace is rejected the same way
// as an unknown one. The order number is derived from the workspace's
// configured prefix and the running order count.
func (s *OrderService) Create(ctx context.Context, workspaceIdentity string, o Order) (Order, error) {
	if o.CustomerID == uuid.Nil {
		return Order{}, errs.New(errs.ErrCodeMissingRequired, "customer_id is required")
	}
	if strings.TrimSpace(o.Description) == "" {
		return Order{}, errs.New(errs.ErrCodeMissingRequired, "description is required")
	}
	if o.Status != "" && o.Status != StatusPending {
		return Order{}, errs.New(errs.ErrCodeInvalidInput, "new orders start as pending")
	}

	if err := s.customers.Exists(ctx, workspaceIdentity, o.CustomerID); err != nil {
		if errs.IsCode(err, errs.ErrCodeNotFound) {
			return Order{}, errs.Newf(errs.ErrCodeInvalidInput, "unknown customer: %s", o.CustomerID)
		}
		return Order{}, fmt.Errorf("failed to verify customer: %w", err)
	}

	number, err := s.nextNumber(ctx, workspaceIdentity)
	if err != nil {
		return Order{}, err
	}

	o.WorkspaceIdentity = workspaceIdentity
	o.Number = number
	o.Status = StatusPending

	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("Order created", "id", created.ID, "number", created.Number, "workspace", workspaceIdentity)
	return created, nil
}

// Get returns a single order
func (s *OrderService) Get(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Order, error) {
	return s.repo.GetOrder(ctx, workspaceIdentity, id)
}

// Update applies a partial update. Status changes go through UpdateStatus.
func (s *OrderService) Update(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateOrderParams) (Order, error) {
	if params.Description != nil && strings.TrimSpace(*params.Description) == "" {
		return Order{}, errs.New(errs.ErrCodeInvalidInput, "description cannot be empty")
	}
	return s.repo.UpdateOrder(ctx, workspaceIdentity, id, params)
}

// UpdateStatus moves an order along its lifecycle, rejecting transitions the
// lifecycle does not permit
func (s *OrderService) UpdateStatus(ctx context.Context, workspaceIdentity string, id uuid.UUID, next Status) (Order, error) {
	if !next.IsValid() {
		return Order{}, errs.Newf(errs.ErrCodeInvalidInput, "unknown order status: %s", next)
	}

	current, err := s.repo.GetOrder(ctx, workspaceIdentity, id)
	if err != nil {
		return Order{}, err
	}

	if !current.Status.CanTransitionTo(next) {
		return Order{}, errs.Newf(errs.ErrCodeInvalidInput, "cannot move order from %s to %s", current.Status, next)
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, workspaceIdentity, id, next)
	if err != nil {
		return Order{}, err
	}

	slog.Info("Order status changed", "id", id, "from", current.Status, "to", next, "workspace", workspaceIdentity)
	return updated, nil
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	if err := s.repo.DeleteOrder(ctx, workspaceIdentity, id); err != nil {
		return err
	}
	slog.Info("Order deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// List returns the workspace's orders, newest first
func (s *OrderService) List(ctx context.Context, workspaceIdentity string, filter OrderFilter) ([]Order, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, errs.Newf(errs.ErrCodeInvalidInput, "unknown order status: %s", *filter.Status)
	}
	return s.repo.FindOrders(ctx, workspaceIdentity, filter)
}

func (s *OrderService) nextNumber(ctx context.Context, workspaceIdentity string) (string, error) {
	prefix, err := s.prefixes.OrderPrefix(ctx, workspaceIdentity)
	if err != nil {
		return "", fmt.Errorf("failed to get order prefix: %w", err)
	}

	count, err := s.repo.CountOrders(ctx, workspaceIdentity)
	if err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}

	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}
