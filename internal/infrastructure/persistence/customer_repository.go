package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const customerSelect = "customers.*, (SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.id) AS orders_count"

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return r.findOne(ctx, "customers.id = ?", id)
}

// FindByUserID finds the customer linked to an identity user
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	return r.findOne(ctx, "customers.user_id = ?", userID)
}

// FindByEmail finds the customer using the email, ignoring case
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.findOne(ctx, "LOWER(customers.email) = LOWER(?)", email)
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.CustomerModel{}).Select(customerSelect), filter)
	if filter.OrderBy == "" {
		query = query.Order("customers.first_name ASC").Order("customers.last_name ASC").Order("customers.id ASC")
	} else {
		query = orderBy(query, filter, CustomerSortFields, "customers.first_name", "ASC", "customers.id")
	}

	var rows []models.CustomerModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withAddresses(ctx, rows)
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.CustomerModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates the customer and upserts or clears its address
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Save(models.CustomerModelFromDomain(c)).Error; err != nil {
			if IsDuplicate(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		if c.Address == nil {
			return tx.Where("customer_id = ?", c.ID).Delete(&models.AddressModel{}).Error
		}
		address := models.AddressModel{CustomerID: c.ID, Street: c.Address.Street, City: c.Address.City}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"street", "city"}),
		}).Create(&address).Error
	})
}

// Delete removes a customer and its address. Customers with orders are protected.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.OrderModel{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return shared.NewProtectedError("Customer cannot be deleted because it has an association with orders")
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.AddressModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CustomerModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByID checks whether a customer exists
func (r *GormCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.CustomerModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks whether another customer already uses the email
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.CustomerModel{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *GormCustomerRepository) findOne(ctx context.Context, where string, args ...any) (*customer.Customer, error) {
	var model models.CustomerModel
	err := conn(ctx, r.db).Model(&models.CustomerModel{}).
		Select(customerSelect).
		Where(where, args...).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	customers, err := r.withAddresses(ctx, []models.CustomerModel{model})
	if err != nil {
		return nil, err
	}
	return &customers[0], nil
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("LOWER(customers.first_name) LIKE ? ESCAPE '\\' OR LOWER(customers.last_name) LIKE ? ESCAPE '\\' OR LOWER(customers.email) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern)
	}
	if prefix, ok := filterString(filter, customer.FilterNamePrefix); ok {
		pattern := prefixPattern(prefix)
		query = query.Where("LOWER(customers.first_name) LIKE ? ESCAPE '\\' OR LOWER(customers.last_name) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	switch m := filter.Filters[customer.FilterMembership].(type) {
	case customer.Membership:
		if m != "" {
			query = query.Where("customers.membership = ?", m)
		}
	case string:
		if m != "" {
			query = query.Where("customers.membership = ?", m)
		}
	}
	return query
}

func (r *GormCustomerRepository) withAddresses(ctx context.Context, rows []models.CustomerModel) ([]customer.Customer, error) {
	customers := make([]customer.Customer, len(rows))
	if len(rows) == 0 {
		return customers, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var addresses []models.AddressModel
	if err := conn(ctx, r.db).Where("customer_id IN ?", ids).Find(&addresses).Error; err != nil {
		return nil, err
	}
	byCustomer := make(map[uuid.UUID]*models.AddressModel, len(addresses))
	for i := range addresses {
		byCustomer[addresses[i].CustomerID] = &addresses[i]
	}
	for i := range rows {
		customers[i] = *rows[i].ToDomain(byCustomer[rows[i].ID])
	}
	return customers, nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
