package memory

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

//go:embed timezones.toml
var timezonesSeed []byte

// Place is a row of the timezone reference table.
type Place struct {
	Code   string
	Name   string
	Cities []string
	Zones  []string
}

type seedFile struct {
	Places []seedPlace `toml:"place"`
}

type seedPlace struct {
	Code   string   `toml:"code"`
	Name   string   `toml:"name"`
	Cities []string `toml:"cities"`
	Zones  []string `toml:"zones"`
}

// seedTimezones fills an empty timezones table from the embedded seed.
func (s *Store) seedTimezones() error {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM timezones").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var seed seedFile
	if _, err := toml.Decode(string(timezonesSeed), &seed); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO timezones (country_code, country_name, country_city, zones)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range seed.Places {
		if _, err := stmt.Exec(strings.ToUpper(p.Code), strings.ToLower(p.Name), joinList(p.Cities), strings.Join(p.Zones, ",")); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FindPlace looks query up as an exact country code or name first, then as
// a substring of a country's city list. It returns nil when nothing matches.
func (s *Store) FindPlace(ctx context.Context, query string) (*Place, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || strings.Contains(query, ",") {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT country_code, country_name, country_city, zones FROM timezones
		WHERE lower(country_code) = ? OR country_name = ?
		LIMIT 1
	`, query, query)
	p, err := scanPlace(row)
	if err != nil || p != nil {
		return p, err
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT country_code, country_name, country_city, zones FROM timezones
		WHERE country_city LIKE ? ESCAPE '\'
		ORDER BY country_code
		LIMIT 1
	`, "%"+escapeLike(query)+"%")
	return scanPlace(row)
}

// ListPlaces returns every reference row ordered by country code.
func (s *Store) ListPlaces(ctx context.Context) ([]Place, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT country_code, country_name, country_city, zones FROM timezones
		ORDER BY country_code
	`)
	if err != nil {
		return nil, retrieveErr(err, "list places")
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		var code, name, cities, zones string
		if err := rows.Scan(&code, &name, &cities, &zones); err != nil {
			return nil, retrieveErr(err, "scan place")
		}
		places = append(places, newPlace(code, name, cities, zones))
	}
	if err := rows.Err(); err != nil {
		return nil, retrieveErr(err, "list places")
	}
	return places, nil
}

// AddCity appends a city to the city list of the country with code.
func (s *Store) AddCity(ctx context.Context, code, city string) error {
	if err := s.ready(); err != nil {
		return err
	}
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" || strings.Contains(city, ",") {
		return apperrors.User(apperrors.CodeValidationFailed, "city name required and must not contain commas")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE timezones SET country_city = country_city || ?
		WHERE country_code = ? AND instr(',' || country_city, ',' || ? || ',') = 0
	`, city+",", strings.ToUpper(code), city)
	if err != nil {
		return storeErr(err, "add city")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM timezones WHERE country_code = ?", strings.ToUpper(code)).Scan(&exists); err != nil {
			return retrieveErr(err, "add city")
		}
		if exists == 0 {
			return apperrors.NewBuilder(apperrors.CodeValidationFailed, "unknown country code").
				User().
				WithContext("code", code).
				WithSuggestion("Run `chatbot places` to list the known countries").
				Build()
		}
	}
	return nil
}

func scanPlace(row *sql.Row) (*Place, error) {
	var code, name, cities, zones string
	err := row.Scan(&code, &name, &cities, &zones)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, retrieveErr(err, "find place")
	}
	p := newPlace(code, name, cities, zones)
	return &p, nil
}

func newPlace(code, name, cities, zones string) Place {
	return Place{
		Code:   code,
		Name:   name,
		Cities: splitList(cities),
		Zones:  splitList(zones),
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
