package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateNotFound maps gorm's missing-row error to the domain error
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// paginate applies ordering and, when both Page and PageSize are set,
// offset/limit. A zero filter returns every row.
func paginate(query *gorm.DB, filter shared.Filter, sortFields map[string]string, defaultColumn string) *gorm.DB {
	column := ValidateSortField(filter.OrderBy, sortFields, defaultColumn)
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   ValidateSortOrder(filter.OrderDir) == "DESC",
	})
	if column != "id" {
		query = query.Order("id")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern; use with LOWER(column) LIKE ?
func likePattern(search string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// nextNumber parses the numeric suffix of the last number with the given prefix
// and formats the following one with five digits.
func nextNumber(prefix, last string) string {
	next := 1
	if strings.HasPrefix(last, prefix) {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(last, prefix), "%d", &n); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, next)
}

// likeClause is the LIKE operator with an explicit escape character, portable across Postgres and SQLite
const likeClause = ` LIKE ? ESCAPE '\'`

// nextOrderNumber finds the highest order_number with prefix and returns the next one
func nextOrderNumber(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID, prefix string) (string, error) {
	var numbers []string
	if err := db.WithContext(ctx).Model(model).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error; err != nil {
		return "", err
	}
	last := ""
	if len(numbers) > 0 {
		last = numbers[0]
	}
	return nextNumber(prefix, last), nil
}
