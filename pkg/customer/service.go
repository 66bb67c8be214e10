package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// CustomerService provides customer operations for a workspace. The caller
// passes the resolved effective identity; the service never sees raw client
// input for the tenant key.
type CustomerService struct {
	repo CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Create adds a customer to the workspace
func (s *CustomerService) Create(ctx context.Context, workspaceIdentity string, c Customer) (Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Customer{}, errs.New(errs.ErrCodeMissingRequired, "customer name is required")
	}

	c.WorkspaceIdentity = workspaceIdentity
	created, err := s.repo.CreateCustomer(ctx, c)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	slog.Info("Customer created", "id", created.ID, "workspace", workspaceIdentity)
	return created, nil
}

// Get returns a single customer
func (s *CustomerService) Get(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Customer, error) {
	return s.repo.GetCustomer(ctx, workspaceIdentity, id)
}

// Exists verifies that a customer exists in the workspace. A customer held
// by another workspace looks identical to a missing one.
func (s *CustomerService) Exists(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	_, err := s.repo.GetCustomer(ctx, workspaceIdentity, id)
	return err
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateCustomerParams) (Customer, error) {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return Customer{}, errs.New(errs.ErrCodeInvalidInput, "customer name cannot be empty")
	}
	return s.repo.UpdateCustomer(ctx, workspaceIdentity, id, params)
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	if err := s.repo.DeleteCustomer(ctx, workspaceIdentity, id); err != nil {
		return err
	}
	slog.Info("Customer deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// List returns one page of customers, newest first
func (s *CustomerService) List(ctx context.Context, workspaceIdentity string, cursorToken string, limit int) (CustomerPage, error) {
	cursor, err := DecodeCursor(cursorToken)
	if err != nil {
		return CustomerPage{}, err
	}
	return s.repo.ListCustomers(ctx, workspaceIdentity, cursor, limit)
}
