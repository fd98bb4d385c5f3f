package review

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/flake"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/pg"
)

const (
	pgInsertReview = `INSERT INTO %s.reviews(json_data) VALUES($1)`
	pgUpdateReview = `UPDATE %s.reviews
		SET json_data = $2
		WHERE (json_data->>'id')::BIGINT = $1::BIGINT`
	pgDeleteReview = `DELETE
		FROM %s.reviews
		WHERE (json_data->>'film_id')::BIGINT = $1::BIGINT
		AND (json_data->>'reviewer_id')::BIGINT = $2::BIGINT`
	pgDeleteByFilm = `DELETE
		FROM %s.reviews
		WHERE (json_data->>'film_id')::BIGINT = $1::BIGINT`

	// pgAcceptAll flips every open invitation of a reviewer in one statement,
	// invitations already expired at the given time are left alone.
	pgAcceptAll = `UPDATE %s.reviews
		SET json_data = jsonb_set(
			jsonb_set(json_data, '{status}', '"accepted"'),
			'{updated_at}',
			to_jsonb($2::TEXT)
		)
		WHERE (json_data->>'reviewer_id')::BIGINT = $1::BIGINT
		AND (json_data->>'status') = 'pending'
		AND (
			(json_data->>'expiration_date') IS NULL
			OR (json_data->>'expiration_date')::TIMESTAMPTZ > $3::TIMESTAMPTZ
		)`

	pgCountReviews = `SELECT count(json_data) FROM %s.reviews
		%s`
	pgListReviews = `SELECT json_data FROM %s.reviews
		%s`

	pgClauseFilmIDs     = `(json_data->>'film_id')::BIGINT IN (?)`
	pgClauseIDs         = `(json_data->>'id')::BIGINT IN (?)`
	pgClauseReviewerIDs = `(json_data->>'reviewer_id')::BIGINT IN (?)`
	pgClauseStatuses    = `(json_data->>'status') IN (?)`
	pgClauseStatusesAt  = `CASE
			WHEN (json_data->>'status') = 'pending'
			AND (json_data->>'expiration_date') IS NOT NULL
			AND (json_data->>'expiration_date')::TIMESTAMPTZ <= ?::TIMESTAMPTZ
			THEN 'cancelled'
			ELSE (json_data->>'status')
		END IN (?)`

	pgOrderCreatedAt = `ORDER BY (json_data->>'created_at')::TIMESTAMP DESC`

	pgIndexFilmReviewer = `
		CREATE UNIQUE INDEX
			%s
		ON
			%s.reviews(((json_data->>'film_id')::BIGINT), ((json_data->>'reviewer_id')::BIGINT))`
	pgIndexReviewer = `
		CREATE INDEX
			%s
		ON
			%s.reviews(((json_data->>'reviewer_id')::BIGINT))`

	pgCreateSchema = `CREATE SCHEMA IF NOT EXISTS %s`
	pgCreateTable  = `CREATE TABLE IF NOT EXISTS %s.reviews
		(json_data JSONB NOT NULL)`
	pgDropTable = `DROP TABLE IF EXISTS %s.reviews`
)

type pgService struct {
	db *sqlx.DB
}

// PostgresService returns a Postgres based Service implementation.
func PostgresService(db *sqlx.DB) Service {
	return &pgService{db: db}
}

func (s *pgService) AcceptAll(
	ns string,
	reviewerID uint64,
	now time.Time,
) (int, error) {
	params := []interface{}{
		reviewerID,
		now.UTC().Format(time.RFC3339Nano),
		now.UTC().Format(pg.TimeFormat),
	}

	res, err := s.db.Exec(wrapNamespace(pgAcceptAll, ns), params...)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return 0, err
		}

		res, err = s.db.Exec(wrapNamespace(pgAcceptAll, ns), params...)
	}
	if err != nil {
		return 0, err
	}

	accepted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(accepted), nil
}

func (s *pgService) Count(ns string, opts QueryOptions) (int, error) {
	where, params, err := convertOpts(opts, false)
	if err != nil {
		return 0, err
	}

	return s.countReviews(ns, where, params...)
}

func (s *pgService) Create(ns string, review *Review) (*Review, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}

	id, err := flake.NextID(flakeNamespace(ns))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	review.ID = id

	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}

	review.CreatedAt = review.CreatedAt.UTC()
	review.UpdatedAt = now

	data, err := json.Marshal(review)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(wrapNamespace(pgInsertReview, ns), data)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return nil, err
		}

		_, err = s.db.Exec(wrapNamespace(pgInsertReview, ns), data)
	}
	if err != nil {
		if pg.IsNotUnique(pg.WrapError(err)) {
			return nil, wrapError(
				ErrAlreadyExists,
				"film %d reviewer %d",
				review.FilmID,
				review.ReviewerID,
			)
		}

		return nil, err
	}

	return review, nil
}

func (s *pgService) Delete(ns string, filmID, reviewerID uint64) error {
	_, err := s.db.Exec(wrapNamespace(pgDeleteReview, ns), filmID, reviewerID)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return err
		}

		_, err = s.db.Exec(wrapNamespace(pgDeleteReview, ns), filmID, reviewerID)
	}

	return err
}

func (s *pgService) DeleteByFilm(ns string, filmID uint64) error {
	_, err := s.db.Exec(wrapNamespace(pgDeleteByFilm, ns), filmID)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return err
		}

		_, err = s.db.Exec(wrapNamespace(pgDeleteByFilm, ns), filmID)
	}

	return err
}

func (s *pgService) Put(ns string, review *Review) (*Review, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if review.ID == 0 {
		return nil, wrapError(ErrNotFound, "id not set")
	}

	rs, err := s.Query(ns, QueryOptions{
		IDs: []uint64{
			review.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(rs) == 0 {
		return nil, ErrNotFound
	}

	review.CreatedAt = rs[0].CreatedAt
	review.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(review)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(wrapNamespace(pgUpdateReview, ns), review.ID, data)
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *pgService) Query(ns string, opts QueryOptions) (List, error) {
	where, params, err := convertOpts(opts, true)
	if err != nil {
		return nil, err
	}

	return s.listReviews(ns, where, params...)
}

func (s *pgService) Setup(ns string) error {
	qs := []string{
		wrapNamespace(pgCreateSchema, ns),
		wrapNamespace(pgCreateTable, ns),
		pg.GuardIndex(ns, "review_film_reviewer", pgIndexFilmReviewer),
		pg.GuardIndex(ns, "review_reviewer", pgIndexReviewer),
	}

	for _, query := range qs {
		_, err := s.db.Exec(query)
		if err != nil {
			return fmt.Errorf("query (%s): %s", query, err)
		}
	}

	return nil
}

func (s *pgService) Teardown(ns string) error {
	_, err := s.db.Exec(wrapNamespace(pgDropTable, ns))
	return err
}

func (s *pgService) countReviews(
	ns, where string,
	params ...interface{},
) (int, error) {
	var (
		count = 0
		query = fmt.Sprintf(pgCountReviews, ns, where)
	)

	err := s.db.Get(&count, query, params...)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return 0, err
		}

		err = s.db.Get(&count, query, params...)
	}

	return count, err
}

func (s *pgService) listReviews(
	ns, where string,
	params ...interface{},
) (List, error) {
	query := fmt.Sprintf(pgListReviews, ns, where)

	rows, err := s.db.Query(query, params...)
	if err != nil {
		if !pg.IsRelationNotFound(pg.WrapError(err)) {
			return nil, err
		}

		if err := s.Setup(ns); err != nil {
			return nil, err
		}

		rows, err = s.db.Query(query, params...)
		if err != nil {
			return nil, err
		}
	}
	defer rows.Close()

	rs := List{}

	for rows.Next() {
		var (
			review = &Review{}

			raw []byte
		)

		err := rows.Scan(&raw)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal(raw, review)
		if err != nil {
			return nil, err
		}

		rs = append(rs, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rs, nil
}

func convertOpts(opts QueryOptions, ordered bool) (string, []interface{}, error) {
	var (
		clauses = []string{}
		params  = []interface{}{}
	)

	if len(opts.FilmIDs) > 0 {
		ps := []interface{}{}

		for _, id := range opts.FilmIDs {
			ps = append(ps, id)
		}

		clause, _, err := sqlx.In(pgClauseFilmIDs, ps)
		if err != nil {
			return "", nil, err
		}

		clauses = append(clauses, clause)
		params = append(params, ps...)
	}

	if len(opts.IDs) > 0 {
		ps := []interface{}{}

		for _, id := range opts.IDs {
			ps = append(ps, id)
		}

		clause, _, err := sqlx.In(pgClauseIDs, ps)
		if err != nil {
			return "", nil, err
		}

		clauses = append(clauses, clause)
		params = append(params, ps...)
	}

	if len(opts.ReviewerIDs) > 0 {
		ps := []interface{}{}

		for _, id := range opts.ReviewerIDs {
			ps = append(ps, id)
		}

		clause, _, err := sqlx.In(pgClauseReviewerIDs, ps)
		if err != nil {
			return "", nil, err
		}

		clauses = append(clauses, clause)
		params = append(params, ps...)
	}

	if len(opts.Statuses) > 0 {
		ps := []interface{}{}

		for _, status := range opts.Statuses {
			ps = append(ps, string(status))
		}

		if opts.ActiveAt.IsZero() {
			clause, _, err := sqlx.In(pgClauseStatuses, ps)
			if err != nil {
				return "", nil, err
			}

			clauses = append(clauses, clause)
			params = append(params, ps...)
		} else {
			activeAt := opts.ActiveAt.UTC().Format(pg.TimeFormat)

			clause, _, err := sqlx.In(pgClauseStatusesAt, activeAt, ps)
			if err != nil {
				return "", nil, err
			}

			clauses = append(clauses, clause)
			params = append(params, activeAt)
			params = append(params, ps...)
		}
	}

	query := ""

	if len(clauses) > 0 {
		query = sqlx.Rebind(sqlx.DOLLAR, pg.ClausesToWhere(clauses...))
	}

	if ordered {
		query = fmt.Sprintf("%s\n%s", query, pgOrderCreatedAt)
	}

	if opts.Limit > 0 {
		query = fmt.Sprintf("%s\nLIMIT %d", query, opts.Limit)
	}

	if opts.Offset > 0 {
		query = fmt.Sprintf("%s\nOFFSET %d", query, opts.Offset)
	}

	return query, params, nil
}

func flakeNamespace(ns string) string {
	return fmt.Sprintf("%s_%s", ns, "reviews")
}

func wrapNamespace(query, namespace string) string {
	return fmt.Sprintf(query, namespace)
}
