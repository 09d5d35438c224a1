package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Repo is the generic PostgreSQL repository. One instance serves one entity,
// driven entirely by its registration data: table, allow-lists, soft-delete
// policy, and relation projections. It holds no mutable state and is safe for
// concurrent use; isolation is the store's concern.
//
// Embed Repo in a concrete repository to add entity-specific finders.
type Repo[T any] struct {
	txm      *TxManager
	def      registry.Definition
	cols     []string
	writable map[string]struct{}
}

// NewRepo creates a repository for one entity. The definition is validated
// here as well as at registry time; an invalid one is a programmer error and
// panics at startup.
func NewRepo[T any](txm *TxManager, def registry.Definition) *Repo[T] {
	if err := def.Validate(); err != nil {
		panic(fmt.Sprintf("postgres: %v", err))
	}

	cols := ExtractDBColumns[T]()
	if len(cols) == 0 {
		panic(fmt.Sprintf("postgres: %s: entity type has no db tags", def.Name))
	}

	writable := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		switch c {
		case "id", "created_at", "deleted_at":
			// id is immutable; created_at is set once; deleted_at is
			// owned by Delete, not by partial updates.
			continue
		}
		writable[c] = struct{}{}
	}

	return &Repo[T]{txm: txm, def: def, cols: cols, writable: writable}
}

// Definition returns the entity's registration record.
func (r *Repo[T]) Definition() registry.Definition {
	return r.def
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *Repo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the querier for the current context (transaction or pool).
func (r *Repo[T]) Querier(ctx context.Context) Querier {
	return r.txm.GetQuerier(ctx)
}

// selectQuery builds the projected SELECT for a variant.
func (r *Repo[T]) selectQuery(variant registry.Variant) squirrel.SelectBuilder {
	p := buildProjection(r.def.Table, r.cols, r.def.Projection(variant))
	q := r.Builder().Select(p.selects...).From(r.def.Table)
	for _, j := range p.joins {
		q = q.LeftJoin(j)
	}
	return q
}

// SelectQuery returns the projected SELECT for a variant. Entity-specific
// finders build on it instead of hand-writing the projection.
func (r *Repo[T]) SelectQuery(variant registry.Variant) squirrel.SelectBuilder {
	return r.selectQuery(variant)
}

// FindOne executes a SELECT and returns a single entity, or nil when no row
// matched.
func (r *Repo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find one %s: %w", r.def.Name, err)
	}
	return e, nil
}

// buildFindAll resolves the caller-supplied options against the allow-lists
// and produces the data and count queries. Any validation failure happens
// here, before a single store round-trip.
func (r *Repo[T]) buildFindAll(opts query.Options) (dataQ, countQ squirrel.SelectBuilder, err error) {
	filters, err := query.ResolveFilters(r.def.Name, r.def.FilterFields, opts.Filters)
	if err != nil {
		return dataQ, countQ, err
	}
	sortSpec, err := query.ResolveSort(r.def.Name, r.def.SortFields, opts.Sort)
	if err != nil {
		return dataQ, countQ, err
	}
	if opts.Page != nil {
		if err := opts.Page.Validate(); err != nil {
			return dataQ, countQ, err
		}
	}

	pred := BuildPredicate(r.def.Table, filters)

	dataQ = r.selectQuery(registry.VariantList)
	if pred != nil {
		dataQ = dataQ.Where(pred)
	}
	dataQ = applySoftDelete(dataQ, r.def.Table, r.def.SoftDelete, opts.IncludeDeleted)

	countQ = r.Builder().Select("COUNT(*)").From(r.def.Table)
	if pred != nil {
		countQ = countQ.Where(pred)
	}
	countQ = applySoftDelete(countQ, r.def.Table, r.def.SoftDelete, opts.IncludeDeleted)

	// Default ordering is newest first; IDs are UUIDv7 so created_at and id
	// order agree.
	orderBy := r.def.Table + ".created_at DESC"
	if sortSpec != nil {
		direction := " ASC"
		if sortSpec.Desc {
			direction = " DESC"
		}
		orderBy = r.def.Table + "." + sortSpec.Field + direction
	}
	dataQ = dataQ.OrderBy(orderBy)

	if opts.Page != nil {
		limit, offset := opts.Page.LimitOffset()
		dataQ = dataQ.Limit(limit).Offset(offset)
	}

	return dataQ, countQ, nil
}

// FindAll runs a filtered, sorted, paginated read with the list projection.
//
// The count and the page are two separate statements, deliberately not one
// transaction: under concurrent writes the envelope is a best-effort snapshot
// of the matching set, which is acceptable for list views.
func (r *Repo[T]) FindAll(ctx context.Context, opts query.Options) (domain.ListResult[T], error) {
	var result domain.ListResult[T]

	dataQ, countQ, err := r.buildFindAll(opts)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return result, fmt.Errorf("count %s: %w", r.def.Name, err)
	}

	sql, args, err := dataQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	rows := make([]T, 0)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.def.Name, err)
	}

	result.Data = rows
	if opts.Page != nil {
		result.Pagination = query.NewPagination(total, *opts.Page)
	} else {
		result.Pagination = query.TotalOnly(total)
	}
	return result, nil
}

// FindByID retrieves one entity with the detail projection, or nil when the
// row does not exist or is soft-deleted.
func (r *Repo[T]) FindByID(ctx context.Context, entityID id.ID) (*T, error) {
	return r.findByID(ctx, entityID, false)
}

// FindByIDIncludeDeleted retrieves one entity regardless of its soft-delete
// marker, for audit-style reads.
func (r *Repo[T]) FindByIDIncludeDeleted(ctx context.Context, entityID id.ID) (*T, error) {
	return r.findByID(ctx, entityID, true)
}

func (r *Repo[T]) findByID(ctx context.Context, entityID id.ID, includeDeleted bool) (*T, error) {
	q := r.selectQuery(registry.VariantDetail).
		Where(squirrel.Eq{r.def.Table + ".id": entityID})
	q = applySoftDelete(q, r.def.Table, r.def.SoftDelete, includeDeleted)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by id: %w", r.def.Name, err)
	}
	return e, nil
}

// buildCreate produces the INSERT for an entity, assigning the identifier and
// creation timestamps when the caller left them zero.
func (r *Repo[T]) buildCreate(e *T) (squirrel.InsertBuilder, error) {
	data := StructToMap(*e)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("no db tags found in entity")
	}

	now := time.Now().UTC()
	if v, ok := data["id"].(id.ID); !ok || id.IsNil(v) {
		data["id"] = id.New()
	}
	if t, ok := data["created_at"].(time.Time); !ok || t.IsZero() {
		data["created_at"] = now
	}
	if t, ok := data["updated_at"].(time.Time); !ok || t.IsZero() {
		data["updated_at"] = now
	}

	// Column order follows the extracted column list, keeping the SQL stable.
	columns := make([]string, 0, len(r.cols))
	values := make([]any, 0, len(r.cols))
	for _, col := range r.cols {
		if v, ok := data[col]; ok {
			columns = append(columns, col)
			values = append(values, v)
		}
	}

	q := r.Builder().
		Insert(r.def.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + strings.Join(r.cols, ", "))
	return q, nil
}

// Create inserts the entity and returns the stored row from the same
// round-trip (INSERT ... RETURNING), so there is no read-after-write race.
func (r *Repo[T]) Create(ctx context.Context, e *T) (*T, error) {
	q, err := r.buildCreate(e)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	row := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), row, sql, args...); err != nil {
		return nil, r.wrapStoreErr("insert", err)
	}
	return row, nil
}

// buildUpdate produces the partial UPDATE. Every changed column is checked
// against the writable set; the repository does not trust upstream layers to
// have filtered column names.
func (r *Repo[T]) buildUpdate(entityID id.ID, changes map[string]any) (squirrel.UpdateBuilder, error) {
	var zero squirrel.UpdateBuilder
	if len(changes) == 0 {
		return zero, apperror.NewValidation("no fields to update").
			WithDetail("entity", r.def.Name)
	}

	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	q := r.Builder().Update(r.def.Table)
	for _, f := range fields {
		if _, ok := r.writable[f]; !ok {
			return zero, apperror.NewFieldNotAllowed(r.def.Name, f)
		}
		q = q.Set(f, changes[f])
	}
	q = q.Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": entityID})
	if r.def.SoftDelete {
		q = q.Where(squirrel.Eq{"deleted_at": nil})
	}
	q = q.Suffix("RETURNING " + strings.Join(r.cols, ", "))
	return q, nil
}

// Update applies a partial update by identifier and returns the updated row,
// or nil when no visible row matched. Soft-deleted rows are never updated.
func (r *Repo[T]) Update(ctx context.Context, entityID id.ID, changes map[string]any) (*T, error) {
	q, err := r.buildUpdate(entityID, changes)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	row := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, r.wrapStoreErr("update", err)
	}
	return row, nil
}

// Delete soft-deletes the row (sets deleted_at) for soft-deleting entities,
// or physically removes it otherwise. Returns true iff a row was affected;
// repeating a delete returns false, not an error.
func (r *Repo[T]) Delete(ctx context.Context, entityID id.ID) (bool, error) {
	var sql string
	var args []any
	var err error

	if r.def.SoftDelete {
		now := time.Now().UTC()
		sql, args, err = r.Builder().
			Update(r.def.Table).
			Set("deleted_at", now).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": entityID}).
			Where(squirrel.Eq{"deleted_at": nil}).
			ToSql()
	} else {
		sql, args, err = r.Builder().
			Delete(r.def.Table).
			Where(squirrel.Eq{"id": entityID}).
			ToSql()
	}
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, r.wrapStoreErr("delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of rows matching the filters, via the same
// predicate path as FindAll but without the data query.
func (r *Repo[T]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	valid, err := query.ResolveFilters(r.def.Name, r.def.FilterFields, filters)
	if err != nil {
		return 0, err
	}

	q := r.Builder().Select("COUNT(*)").From(r.def.Table)
	if pred := BuildPredicate(r.def.Table, valid); pred != nil {
		q = q.Where(pred)
	}
	q = applySoftDelete(q, r.def.Table, r.def.SoftDelete, false)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.def.Name, err)
	}
	return total, nil
}

// Exists reports whether a visible row with the given ID exists.
func (r *Repo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.def.Table).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)
	q = applySoftDelete(q, r.def.Table, r.def.SoftDelete, false)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.def.Name, err)
	}
	return true, nil
}

// wrapStoreErr maps constraint violations to conflicts and wraps everything
// else unchanged. Store failures are never retried or translated beyond this.
func (r *Repo[T]) wrapStoreErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return apperror.NewConflict("operation violates a foreign key constraint").
				WithDetail("entity", r.def.Name).
				WithCause(err)
		case "23505":
			return apperror.NewConflict("duplicate value violates a unique constraint").
				WithDetail("entity", r.def.Name).
				WithCause(err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, r.def.Name, err)
}
