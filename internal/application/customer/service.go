// Package customer implements customer profile use cases, including the
// caller's own profile at /customers/me.
package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// UserLookup loads identity users
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// OrderLister lists orders for the history view
type OrderLister interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error)
}

// Service handles customer operations
type Service struct {
	uow       shared.UnitOfWork
	customers customer.CustomerRepository
	users     UserLookup
	orders    OrderLister
	recorder  shared.EventRecorder
	logger    *zap.Logger
}

// NewService creates a new customer service
func NewService(
	uow shared.UnitOfWork,
	customers customer.CustomerRepository,
	users UserLookup,
	orders OrderLister,
	recorder shared.EventRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:       uow,
		customers: customers,
		users:     users,
		orders:    orders,
		recorder:  recorder,
		logger:    logger,
	}
}

// List returns a page of customers
func (s *Service) List(ctx context.Context, q ListQuery) (*shared.Paginated[CustomerResponse], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(q.Page, pageSize)
	filter.Search = q.Search
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir
	if q.Membership != "" {
		filter = filter.With(customer.FilterMembership, q.Membership)
	}

	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &page, nil
}

// GetByID returns one customer
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Create creates a customer that is not linked to a login
func (s *Service) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	profile, err := req.toProfile()
	if err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(profile)
	if err != nil {
		return nil, err
	}
	if req.Membership != "" {
		if err := c.ChangeMembership(customer.Membership(req.Membership)); err != nil {
			return nil, err
		}
	}
	if err := s.ensureEmailFree(ctx, c.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Update replaces a customer's profile and, when given, membership
func (s *Service) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := req.toProfile()
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if req.Membership != "" {
		if err := c.ChangeMembership(customer.Membership(req.Membership)); err != nil {
			return nil, err
		}
	}
	if err := s.ensureEmailFree(ctx, c.Email, c.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// ChangeMembership sets only the loyalty tier
func (s *Service) ChangeMembership(ctx context.Context, id uuid.UUID, req MembershipRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.ChangeMembership(customer.Membership(req.Membership)); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// SetAddress creates or replaces the customer address
func (s *Service) SetAddress(ctx context.Context, id uuid.UUID, req AddressRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.SetAddress(req.Street, req.City); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Delete removes a customer without orders
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "customer.delete", attribute.String("customer.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	return s.uow.Do(ctx, func(ctx context.Context) error {
		c, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.CanDelete(); err != nil {
			return err
		}
		return s.customers.Delete(ctx, id)
	})
}

// History returns a customer together with their orders, newest first
func (s *Service) History(ctx context.Context, id uuid.UUID) (*HistoryResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	filter := shared.Filter{OrderBy: "placed_at", OrderDir: "DESC"}.With(order.FilterCustomerID, c.ID)
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	summaries := make([]OrderSummary, len(orders))
	for i := range orders {
		summaries[i] = toOrderSummary(&orders[i])
	}
	return &HistoryResponse{Customer: ToCustomerResponse(c), Orders: summaries}, nil
}

// Me returns the caller's customer profile, creating it on first access
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// UpdateMe edits the caller's own profile. Membership is not editable here.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, req ProfileRequest) (*CustomerResponse, error) {
	c, err := s.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := req.toProfile()
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, c.Email, c.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// EnsureForUser returns the customer linked to userID, creating it from the
// identity user when absent. Names fall back to the username so the new
// profile is valid. A concurrent creation is resolved by reloading.
func (s *Service) EnsureForUser(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	c, err := s.customers.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c, err := s.linkByEmail(ctx, userID, user.Email); c != nil || err != nil {
		return c, err
	}
	profile := customer.Profile{
		FirstName: firstNonEmpty(user.FirstName, user.Username),
		LastName:  firstNonEmpty(user.LastName, user.Username),
		Email:     user.Email,
	}
	c, err = customer.NewCustomerForUser(userID, profile)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			if existing, findErr := s.customers.FindByUserID(ctx, userID); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	s.logger.Info("Customer profile created for user",
		zap.String("user_id", userID.String()),
		zap.String("customer_id", c.ID.String()))
	return c, nil
}

// linkByEmail claims a staff-created profile that carries the user's email
// and has no login yet. It returns nil when there is nothing to link.
func (s *Service) linkByEmail(ctx context.Context, userID uuid.UUID, email string) (*customer.Customer, error) {
	if email == "" {
		return nil, nil
	}
	c, err := s.customers.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := c.LinkUser(userID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Customer profile linked to user",
		zap.String("user_id", userID.String()),
		zap.String("customer_id", c.ID.String()))
	return c, nil
}

func (s *Service) save(ctx context.Context, c *customer.Customer) error {
	return s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.customers.Save(ctx, c); err != nil {
			return err
		}
		events := c.GetDomainEvents()
		if len(events) == 0 {
			return nil
		}
		if err := s.recorder.Record(ctx, events...); err != nil {
			return err
		}
		c.ClearDomainEvents()
		return nil
	})
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, excludeID uuid.UUID) error {
	taken, err := s.customers.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Customer with this email already exists")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
