package film

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/flake"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/pg"
)

const (
	pgInsertFilm = `INSERT INTO %s.films(json_data) VALUES($1)`
	pgUpdateFilm = `UPDATE %s.films
		SET json_data = $2
		WHERE (json_data->>'id')::BIGINT = $1::BIGINT`
	pgDeleteFilm = `DELETE
		FROM %s.films
		WHERE (json_data->>'id')::BIGINT = $1::BIGINT`

	pgCountFilms = `SELECT count(json_data) FROM %s.films
		%s`
	pgListFilms = `SELECT json_data FROM %s.films
		%s`

	pgClauseIDs      = `(json_data->>'id')::BIGINT IN (?)`
	pgClauseOwnerIDs = `(json_data->>'owner_id')::BIGINT IN (?)`
	pgClausePrivate  = `(json_data->>'private')::BOOL = ?::BOOL`

	pgOrderCreatedAt = `ORDER BY (json_data->>'created_at')::TIMESTAMP DESC`

	pgIndexID = `
		CREATE INDEX
			%s
		ON
			%s.films(((json_data->>'id')::BIGINT))`
	pgIndexOwnerPrivate = `
		CREATE INDEX
			%s
		ON
			%s.films(((json_data->>'owner_id')::BIGINT))
		WHERE
			(json_data->>'private')::BOOL = true`

	pgCreateSchema = `CREATE SCHEMA IF NOT EXISTS %s`
	pgCreateTable  = `CREATE TABLE IF NOT EXISTS %s.films
		(json_data JSONB NOT NULL)`
	pgDropTable = `DROP TABLE IF EXISTS %s.films`
)

type pgService struct {
	db *sqlx.DB
}

// PostgresService returns a Postgres based Service implementation.
func PostgresService(db *sqlx.DB) Service {
	return &pgService{db: db}
}

func (s *pgService) Count(ns string, opts QueryOptions) (int, error) {
	where, params, err := convertOpts(opts, false)
	if err != nil {
		return 0, err
	}

	return s.countFilms(ns, where, params...)
}

func (s *pgService) Delete(ns string, id uint64) error {
	_, err := s.db.Exec(wrapNamespace(pgDeleteFilm, ns), id)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return err
		}

		_, err = s.db.Exec(wrapNamespace(pgDeleteFilm, ns), id)
	}

	return err
}

func (s *pgService) Put(ns string, film *Film) (*Film, error) {
	if err := film.Validate(); err != nil {
		return nil, err
	}

	var (
		now    = time.Now().UTC()
		params = []interface{}{}
		query  = pgUpdateFilm
	)

	if film.ID != 0 {
		fs, err := s.Query(ns, QueryOptions{
			IDs: []uint64{
				film.ID,
			},
		})
		if err != nil {
			return nil, err
		}

		if len(fs) == 0 {
			return nil, ErrNotFound
		}

		film.CreatedAt = fs[0].CreatedAt
		params = append(params, film.ID)
	} else {
		id, err := flake.NextID(flakeNamespace(ns))
		if err != nil {
			return nil, err
		}

		film.ID = id

		if film.CreatedAt.IsZero() {
			film.CreatedAt = now
		}

		film.CreatedAt = film.CreatedAt.UTC()
		query = pgInsertFilm
	}

	film.UpdatedAt = now

	data, err := json.Marshal(film)
	if err != nil {
		return nil, err
	}

	params = append(params, data)

	_, err = s.db.Exec(wrapNamespace(query, ns), params...)
	if err != nil && pg.IsRelationNotFound(pg.WrapError(err)) {
		if err := s.Setup(ns); err != nil {
			return nil, err
		}

		_, err = s.db.Exec(wrapNamespace(query, ns), params...)
	}
	if err != nil {
		return nil, err
	}

	return film, nil
}

func (s *pgService) Query(ns string, opts QueryOptions) (List, error) {
	where, params, err := convertOpts(opts, true)
	if err != nil {
		return nil, err
	}

	return s.listFilms(ns, where, params...)
}

func (s *pgService) Setup(ns string) error {
	qs := []string{
		wrapNamespace(pgCreateSchema, ns),
		wrapNamespace(pgCreateTable, ns),
		pg.GuardIndex(ns, "film_id", pgIndexID),
		pg.GuardIndex(ns, "film_owner_private", pgIndexOwnerPrivate),
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

func (s *pgService) countFilms(
	ns, where string,
	params ...interface{},
) (int, error) {
	var (
		count = 0
		query = fmt.Sprintf(pgCountFilms, ns, where)
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

func (s *pgService) listFilms(
	ns, where string,
	params ...interface{},
) (List, error) {
	query := fmt.Sprintf(pgListFilms, ns, where)

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

	fs := List{}

	for rows.Next() {
		var (
			film = &Film{}

			raw []byte
		)

		err := rows.Scan(&raw)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal(raw, film)
		if err != nil {
			return nil, err
		}

		fs = append(fs, film)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fs, nil
}

func convertOpts(opts QueryOptions, ordered bool) (string, []interface{}, error) {
	var (
		clauses = []string{}
		params  = []interface{}{}
	)

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

	if len(opts.OwnerIDs) > 0 {
		ps := []interface{}{}

		for _, id := range opts.OwnerIDs {
			ps = append(ps, id)
		}

		clause, _, err := sqlx.In(pgClauseOwnerIDs, ps)
		if err != nil {
			return "", nil, err
		}

		clauses = append(clauses, clause)
		params = append(params, ps...)
	}

	if opts.Private != nil {
		clauses = append(clauses, pgClausePrivate)
		params = append(params, *opts.Private)
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
	return fmt.Sprintf("%s_%s", ns, "films")
}

func wrapNamespace(query, namespace string) string {
	return fmt.Sprintf(query, namespace)
}
