package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campaign-platform/domain"
	"campaign-platform/pkg/utils"

	"gorm.io/gorm"
)

type SQLHandler[T any, V any] struct {
	db          *gorm.DB
	applyFilter func(*gorm.DB, *V) *gorm.DB
}

func NewSQLHandler[T any, V any](
	db *gorm.DB,
	applyFilter func(*gorm.DB, *V) *gorm.DB,
) *SQLHandler[T, V] {
	return &SQLHandler[T, V]{applyFilter: applyFilter, db: db}
}

type DBOption func(*gorm.DB) *gorm.DB

func WithOmit(fields ...string) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Omit(fields...)
	}
}

// applyDBOptions starts from the transaction bound to ctx, if any.
func (h *SQLHandler[T, V]) applyDBOptions(ctx context.Context, opts ...DBOption) *gorm.DB {
	qb := h.db
	if tx, ok := txFromContext(ctx); ok {
		qb = tx
	}
	for _, opt := range opts {
		qb = opt(qb)
	}
	return qb.WithContext(ctx)
}

func normalizeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

func applyPreloads(db *gorm.DB, preloads []string) *gorm.DB {
	for _, field := range preloads {
		db = db.Preload(field)
	}
	return db
}

func (h *SQLHandler[T, V]) Create(ctx context.Context, entity *T, opts ...DBOption) error {
	return h.applyDBOptions(ctx, opts...).Create(entity).Error
}

func (h *SQLHandler[T, V]) CreateMany(ctx context.Context, entities []*T, opts ...DBOption) error {
	if len(entities) == 0 {
		return nil
	}
	return h.applyDBOptions(ctx, opts...).Create(entities).Error
}

func (h *SQLHandler[T, V]) FindByID(ctx context.Context, id any, option *domain.FindOneOption, opts ...DBOption) (*T, error) {
	execDB := h.applyDBOptions(ctx, opts...)
	if option != nil {
		execDB = applyPreloads(execDB, option.Preloads)
	}

	var entity T
	if err := execDB.Where("id = ? AND deleted_at = 0", id).First(&entity).Error; err != nil {
		return nil, normalizeErr(err)
	}
	return &entity, nil
}

func (h *SQLHandler[T, V]) FindOne(ctx context.Context, filter *V, option *domain.FindOneOption, opts ...DBOption) (*T, error) {
	execDB := h.applyFilter(h.applyDBOptions(ctx, opts...), filter)
	if option != nil {
		execDB = applyPreloads(execDB, option.Preloads)
	}

	var entity T
	if err := execDB.First(&entity).Error; err != nil {
		return nil, normalizeErr(err)
	}
	return &entity, nil
}

func (h *SQLHandler[T, V]) applyFindManyOption(db *gorm.DB, option *domain.FindManyOption) *gorm.DB {
	if option == nil {
		return db
	}

	for _, sortField := range option.Sort {
		db = db.Order(sortField)
	}

	if option.Limit != nil {
		db = db.Limit(*option.Limit)
	}

	if option.Offset != nil {
		db = db.Offset(*option.Offset)
	}

	for _, field := range option.Joins {
		db = db.Joins(field)
	}
	return applyPreloads(db, option.Preloads)
}

func (h *SQLHandler[T, V]) FindMany(ctx context.Context, filter *V, option *domain.FindManyOption, opts ...DBOption) ([]*T, error) {
	execDB := h.applyFilter(h.applyDBOptions(ctx, opts...), filter)
	execDB = h.applyFindManyOption(execDB, option)

	entities := []*T{}
	if err := execDB.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (h *SQLHandler[T, V]) applyFindPageOption(db *gorm.DB, option *domain.FindPageOption) (outDB *gorm.DB, page, perPage int) {
	outDB = db
	page = 1
	perPage = 10
	if option != nil {
		for _, sortField := range option.Sort {
			outDB = outDB.Order(sortField)
		}
		if option.Page > 0 {
			page = option.Page
		}
		if option.PerPage > 0 {
			perPage = option.PerPage
		}
		outDB = applyPreloads(outDB, option.Preloads)
	}
	outDB = outDB.Offset((page - 1) * perPage).Limit(perPage)
	return
}

func (h *SQLHandler[T, V]) FindPage(ctx context.Context, filter *V, option *domain.FindPageOption, opts ...DBOption) ([]*T, *domain.Pagination, error) {
	execDB := h.applyFilter(h.applyDBOptions(ctx, opts...), filter)

	var totalItems int64
	if err := execDB.Session(&gorm.Session{}).Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	execDB, page, perPage := h.applyFindPageOption(execDB, option)

	entities := []*T{}
	if err := execDB.Find(&entities).Error; err != nil {
		return nil, nil, err
	}
	return entities, domain.NewPagination(page, perPage, totalItems), nil
}

func (h *SQLHandler[T, V]) Update(ctx context.Context, entity *T, opts ...DBOption) error {
	return h.applyDBOptions(ctx, opts...).Save(entity).Error
}

// UpdateFields returns domain.ErrRecordNotFound when no live row matched.
func (h *SQLHandler[T, V]) UpdateFields(ctx context.Context, id any, fields map[string]any, opts ...DBOption) error {
	res := h.applyDBOptions(ctx, opts...).
		Model(new(T)).
		Where("id = ? AND deleted_at = 0", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DeleteByID soft-deletes by stamping deleted_at.
func (h *SQLHandler[T, V]) DeleteByID(ctx context.Context, id any, opts ...DBOption) error {
	return h.applyDBOptions(ctx, opts...).
		Model(new(T)).
		Where("id = ? AND deleted_at = 0", id).
		Updates(map[string]any{
			"deleted_at": utils.NowUnixMillis(),
		}).Error
}

func (h *SQLHandler[T, V]) Count(ctx context.Context, filter *V, opts ...DBOption) (int64, error) {
	var count int64
	execDB := h.applyFilter(h.applyDBOptions(ctx, opts...), filter)
	err := execDB.Model(new(T)).Count(&count).Error
	return count, err
}

// ApplySearch adds a case-insensitive partial match over the given columns,
// OR-ed together. It works on both postgres and sqlite.
// searchableFields is map[alias]dbField, e.g. {"name": "brands.brand_name"}.
func ApplySearch(
	db *gorm.DB,
	searchTerm string,
	searchFields []string,
	searchableFields map[string]string,
) *gorm.DB {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return db
	}

	fieldsToSearch := getValidSearchFields(searchFields, searchableFields)
	if len(fieldsToSearch) == 0 {
		return db
	}

	q := buildPartialMatchQuery(fieldsToSearch, searchTerm)
	return db.Where(q.condition, q.args...)
}

func getValidSearchFields(requestedFields []string, searchableFields map[string]string) []string {
	if len(requestedFields) == 0 {
		fields := make([]string, 0, len(searchableFields))
		for _, dbField := range searchableFields {
			fields = append(fields, dbField)
		}
		return fields
	}

	var validFields []string
	for _, field := range requestedFields {
		if dbField, exists := searchableFields[field]; exists {
			validFields = append(validFields, dbField)
		}
	}
	return validFields
}

type searchQuery struct {
	condition string
	args      []any
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildPartialMatchQuery(fields []string, searchTerm string) searchQuery {
	conditions := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := "%" + strings.ToLower(escapeLike(searchTerm)) + "%"

	for i, field := range fields {
		conditions[i] = fmt.Sprintf(`LOWER(COALESCE(%s, '')) LIKE ? ESCAPE '\'`, field)
		args[i] = pattern
	}

	return searchQuery{
		condition: "(" + strings.Join(conditions, " OR ") + ")",
		args:      args,
	}
}
