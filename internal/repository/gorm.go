package repository

import (
	"context"
	"errors"
	"time"

	"ecofood/internal/model"
	"ecofood/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txContextKey struct{}

// txFromContext returns the transaction handle placed by GormTxManager, if any
func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// GormTxManager wraps operations in a database transaction. Repository calls
// made with the context passed to fn run on the same transaction.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// LockEmail takes a transaction-scoped advisory lock keyed by the email.
// Postgres releases it when the transaction commits or rolls back.
func (m *GormTxManager) LockEmail(ctx context.Context, email string) error {
	conn := txFromContext(ctx)
	if conn == nil {
		conn = m.db.WithContext(ctx)
	}
	return conn.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", email).Error
}

// mapError converts gorm sentinels to repository errors
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// GormProductRepository is the PostgreSQL product repository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *GormProductRepository) Create(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return mapError(r.conn(ctx).Create(p).Error)
}

func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var p model.Product
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *GormProductRepository) GetByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var p model.Product
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *GormProductRepository) Update(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return mapError(r.conn(ctx).Save(p).Error)
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.conn(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var products []model.Product
	if err := r.conn(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (r *GormProductRepository) ListByCompany(ctx context.Context, companyID uint) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var products []model.Product
	if err := r.conn(ctx).Where("company_id = ?", companyID).Order("id").Find(&products).Error; err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (r *GormProductRepository) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var count int64
	if err := r.conn(ctx).Model(&model.Product{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// GormOrderRepository is the PostgreSQL order repository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *GormOrderRepository) Create(ctx context.Context, o *model.Order) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return mapError(r.conn(ctx).Create(o).Error)
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var o model.Order
	if err := r.conn(ctx).First(&o, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, o *model.Order) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return mapError(r.conn(ctx).Save(o).Error)
}

func (r *GormOrderRepository) ListByClient(ctx context.Context, clientID uint) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var orders []model.Order
	if err := r.conn(ctx).Where("client_id = ?", clientID).Order("id").Find(&orders).Error; err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

func (r *GormOrderRepository) ListByCompany(ctx context.Context, companyID uint, status model.OrderStatus) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	query := r.conn(ctx).Where("company_id = ?", companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []model.Order
	if err := query.Order("id").Find(&orders).Error; err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// GormUserRepository is the PostgreSQL user repository
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return mapError(r.conn(ctx).Create(u).Error)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var u model.User
	if err := r.conn(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var u model.User
	if err := r.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *GormUserRepository) Update(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return mapError(r.conn(ctx).Save(u).Error)
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.conn(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var users []model.User
	if err := r.conn(ctx).Where("role = ?", role).Order("id").Find(&users).Error; err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *GormUserRepository) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var count int64
	if err := r.conn(ctx).Model(&model.User{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// GormCompanyRepository is the PostgreSQL company repository
type GormCompanyRepository struct {
	db *gorm.DB
}

func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *GormCompanyRepository) Create(ctx context.Context, c *model.Company) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return mapError(r.conn(ctx).Create(c).Error)
}

func (r *GormCompanyRepository) GetByID(ctx context.Context, id uint) (*model.Company, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var c model.Company
	if err := r.conn(ctx).First(&c, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *GormCompanyRepository) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var c model.Company
	if err := r.conn(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *GormCompanyRepository) Update(ctx context.Context, c *model.Company) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return mapError(r.conn(ctx).Save(c).Error)
}

func (r *GormCompanyRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.conn(ctx).Delete(&model.Company{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var companies []model.Company
	if err := r.conn(ctx).Order("id").Find(&companies).Error; err != nil {
		return nil, mapError(err)
	}
	return companies, nil
}
