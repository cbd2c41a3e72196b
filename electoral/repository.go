// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"database/sql"
	"fmt"
)

// DatasetRepository writes dataset snapshots to a SQL database for offline
// analysis. Saving replaces whatever was stored before; the engine never
// reads it back.
type DatasetRepository interface {
	// CreateSchema creates the stations, candidates and station_votes tables
	CreateSchema() error

	// SaveDataset replaces the stored snapshot with ds
	SaveDataset(ds *Dataset) error

	// CountStations returns the number of stored stations
	CountStations() (int, error)

	// VotesByCandidate sums the stored votes per candidate name
	VotesByCandidate() (map[string]int, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlDatasetRepository struct {
	db *sql.DB
}

// NewDatasetRepository creates a repository over a DuckDB connection.
func NewDatasetRepository(db *sql.DB) DatasetRepository {
	return &sqlDatasetRepository{db: db}
}

func (r *sqlDatasetRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlDatasetRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS stations (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			comuna VARCHAR NOT NULL,
			corporation VARCHAR NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			is_approximate BOOLEAN NOT NULL,
			potential_voters INTEGER NOT NULL,
			total_votes INTEGER NOT NULL,
			winner_name VARCHAR NOT NULL,
			h3_res8 UBIGINT
		);

		CREATE TABLE IF NOT EXISTS candidates (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			party VARCHAR NOT NULL,
			color VARCHAR NOT NULL,
			avatar VARCHAR NOT NULL
		);

		CREATE TABLE IF NOT EXISTS station_votes (
			station_id VARCHAR NOT NULL,
			seq INTEGER NOT NULL,
			candidate VARCHAR NOT NULL,
			votes INTEGER NOT NULL,
			PRIMARY KEY (station_id, candidate)
		);
	`)

	return err
}

func rollback(tx *sql.Tx, err error) error {
	if rErr := tx.Rollback(); rErr != nil {
		return fmt.Errorf("%w (rollback: %v)", err, rErr)
	}

	return err
}

func (r *sqlDatasetRepository) SaveDataset(ds *Dataset) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	for _, table := range []string{"station_votes", "stations", "candidates"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return rollback(tx, fmt.Errorf("clearing %s: %w", table, err))
		}
	}

	if err := insertCandidates(tx, ds.Candidates); err != nil {
		return rollback(tx, err)
	}

	if err := insertStations(tx, ds.Stations); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func insertCandidates(tx *sql.Tx, candidates []*Candidate) error {
	stmt, err := tx.Prepare(`INSERT INTO candidates(id, name, party, color, avatar) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candidates {
		if _, err := stmt.Exec(c.ID, c.Name, c.Party, c.Color, c.Avatar); err != nil {
			return fmt.Errorf("inserting candidate %s: %w", c.ID, err)
		}
	}

	return nil
}

func insertStations(tx *sql.Tx, stations []*Station) error {
	stmt, err := tx.Prepare(`
		INSERT INTO stations(
			id,
			name,
			comuna,
			corporation,
			lat,
			lng,
			is_approximate,
			potential_voters,
			total_votes,
			winner_name,
			h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	votesStmt, err := tx.Prepare(`INSERT INTO station_votes(station_id, seq, candidate, votes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer votesStmt.Close()

	for _, s := range stations {
		cell, err := s.Cell(CellResolution)
		if err != nil {
			return err
		}

		if _, err := stmt.Exec(
			s.ID,
			s.Name,
			s.Comuna,
			s.Corporation,
			s.Point.Lat,
			s.Point.Lng,
			s.IsApproximate,
			s.PotentialVoters,
			s.TotalVotes,
			s.WinnerName,
			int64(cell),
		); err != nil {
			return fmt.Errorf("inserting station %s: %w", s.ID, err)
		}

		seq := 0
		for name, votes := range s.Votes.All() {
			if _, err := votesStmt.Exec(s.ID, seq, name, votes); err != nil {
				return fmt.Errorf("inserting votes of %s for %s: %w", name, s.ID, err)
			}

			seq++
		}
	}

	return nil
}

func (r *sqlDatasetRepository) CountStations() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM stations",
	).Scan(&count)

	return count, err
}

func (r *sqlDatasetRepository) VotesByCandidate() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT candidate, CAST(SUM(votes) AS BIGINT)
		FROM station_votes
		GROUP BY candidate
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)

	for rows.Next() {
		var candidate string

		var votes int
		if err := rows.Scan(&candidate, &votes); err != nil {
			return nil, err
		}

		totals[candidate] = votes
	}

	return totals, rows.Err()
}
