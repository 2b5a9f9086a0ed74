package store

import (
	"context"
	"database/sql"

	"github.com/ivanjaven/extension/types"
)

// ReportRepository runs the population report queries.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CountByAgeBracket buckets non-archived residents into the fixed age
// categories, in presentation order.
func (r *ReportRepository) CountByAgeBracket(ctx context.Context) ([]types.AgeBracketCount, error) {
	const query = `
		SELECT age_category, COUNT(DISTINCT resident_id)
		FROM (
			SELECT resident_id,
				CASE
					WHEN date_part('year', age(current_date, date_of_birth)) < 1 THEN 'New born'
					WHEN date_part('year', age(current_date, date_of_birth)) BETWEEN 1 AND 12 THEN 'Child'
					WHEN date_part('year', age(current_date, date_of_birth)) BETWEEN 13 AND 19 THEN 'Teenager'
					WHEN date_part('year', age(current_date, date_of_birth)) BETWEEN 20 AND 59 THEN 'Adult'
					ELSE 'Senior Citizen'
				END AS age_category
			FROM residents
			WHERE is_archived = FALSE
		) buckets
		GROUP BY age_category
		ORDER BY
			CASE age_category
				WHEN 'New born' THEN 1
				WHEN 'Child' THEN 2
				WHEN 'Teenager' THEN 3
				WHEN 'Adult' THEN 4
				WHEN 'Senior Citizen' THEN 5
			END`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []types.AgeBracketCount
	for rows.Next() {
		var count types.AgeBracketCount
		if err := rows.Scan(&count.AgeCategory, &count.ResidentCount); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// CountByStreet returns per-street resident counts, keeping streets with no
// residents in the result.
func (r *ReportRepository) CountByStreet(ctx context.Context) ([]types.StreetCount, error) {
	const query = `
		SELECT s.street_name, COUNT(DISTINCT r.resident_id)
		FROM streets s
		LEFT JOIN addresses a ON s.street_id = a.street_id
		LEFT JOIN residents r ON a.resident_id = r.resident_id AND r.is_archived = FALSE
		GROUP BY s.street_id, s.street_name
		ORDER BY s.street_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []types.StreetCount
	for rows.Next() {
		var count types.StreetCount
		if err := rows.Scan(&count.StreetName, &count.ResidentCount); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}
