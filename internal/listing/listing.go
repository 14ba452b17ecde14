package listing

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/validation"
)

const MaxLimit = 100

// tieBreaker is the unique column every listed table carries.
const tieBreaker = "id"

type Match int

const (
	Exact Match = iota
	ExactInt
	ExactUUID
	Contains
	Min
	Max
)

// Field maps a query parameter onto a column predicate.
type Field struct {
	Param  string
	Column string
	Match  Match
}

type Spec struct {
	Fields      []Field
	Sortable    []string
	DefaultSort string
}

type Filter func(*gorm.DB) *gorm.DB

type Query struct {
	Filters []Filter
	Page    int
	Limit   int
	Sort    string
}

// Paginated reports whether both page and limit were supplied.
func (q Query) Paginated() bool {
	return q.Page > 0 && q.Limit > 0
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       *int  `json:"page,omitempty"`
	TotalPages *int  `json:"totalPages,omitempty"`
}

func Parse(values url.Values, spec Spec) (Query, error) {
	q := Query{Sort: spec.DefaultSort}

	for _, f := range spec.Fields {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		filter, err := f.filter(raw)
		if err != nil {
			return Query{}, err
		}
		q.Filters = append(q.Filters, filter)
	}

	var err error
	if q.Page, err = positiveInt(values, "page"); err != nil {
		return Query{}, err
	}
	if q.Limit, err = positiveInt(values, "limit"); err != nil {
		return Query{}, err
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if s := strings.TrimSpace(values.Get("sort")); s != "" {
		if !slices.Contains(spec.Sortable, strings.TrimPrefix(s, "-")) {
			return Query{}, &validation.Error{
				Field:   "sort",
				Message: "must be one of [" + strings.Join(spec.Sortable, ", ") + "]",
			}
		}
		q.Sort = s
	}

	return q, nil
}

func (f Field) filter(raw string) (Filter, error) {
	col := pq.QuoteIdentifier(f.Column)
	switch f.Match {
	case ExactInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &validation.Error{Field: f.Param, Message: "must be a number"}
		}
		return Eq(col, v), nil
	case ExactUUID:
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, &validation.Error{Field: f.Param, Message: "must be a valid GUID"}
		}
		return Eq(col, v), nil
	case Contains:
		return Like(col, raw), nil
	case Min, Max:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &validation.Error{Field: f.Param, Message: "must be a number"}
		}
		op := ">="
		if f.Match == Max {
			op = "<="
		}
		return func(db *gorm.DB) *gorm.DB { return db.Where(col+" "+op+" ?", v) }, nil
	default:
		return Eq(col, raw), nil
	}
}

func Eq(col string, v any) Filter {
	return func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", v) }
}

// Like is a case-insensitive substring match; % and _ in the input are literal.
func Like(col, sub string) Filter {
	pattern := LikePattern(sub)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+col+`) LIKE ? ESCAPE '\'`, pattern)
	}
}

func LikePattern(sub string) string {
	return "%" + escapeLike(strings.ToLower(sub)) + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func positiveInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &validation.Error{Field: key, Message: "must be a positive number"}
	}
	return v, nil
}

// OrderClause turns "col" or "-col" into a quoted ORDER BY expression.
func OrderClause(sort string) string {
	if sort == "" {
		return ""
	}
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = strings.TrimPrefix(sort, "-")
	}
	clause := pq.QuoteIdentifier(sort) + " " + dir
	if sort != tieBreaker {
		// ties on a non-unique column would let OFFSET pages overlap
		clause += ", " + pq.QuoteIdentifier(tieBreaker) + " ASC"
	}
	return clause
}

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return (page - 1) * size, size
}

func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (q Query) Apply(db *gorm.DB) *gorm.DB {
	for _, f := range q.Filters {
		db = f(db)
	}
	return db
}

// Find counts and loads T under q. scopes run on the data query only (preloads, selects).
func Find[T any](ctx context.Context, db *gorm.DB, q Query, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var model T
	var total int64
	if err := q.Apply(db.WithContext(ctx).Model(&model)).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	tx := q.Apply(db.WithContext(ctx).Model(&model)).Scopes(scopes...)
	if order := OrderClause(q.Sort); order != "" {
		tx = tx.Order(order)
	}

	page := Page[T]{Total: total}
	if q.Paginated() {
		offset, limit := Calculate(q.Page, q.Limit)
		tx = tx.Offset(offset).Limit(limit)

		p, tp := q.Page, TotalPages(total, limit)
		page.Page, page.TotalPages = &p, &tp
	}

	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("find: %w", err)
	}
	page.Data = items
	return page, nil
}
