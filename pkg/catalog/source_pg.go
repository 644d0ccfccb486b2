package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the table PostgresSource reads from. One row per
// article/dataset pair; rank orders the matches within an article.
const Schema = `
CREATE TABLE IF NOT EXISTS osd_matches (
	article_id          TEXT NOT NULL,
	article_title       TEXT NOT NULL DEFAULT '',
	total_osds_compared INTEGER NOT NULL DEFAULT 0,
	rank                INTEGER NOT NULL DEFAULT 0,
	osd_id              TEXT,
	osd_title           TEXT,
	similarity          DOUBLE PRECISION,
	confidence          TEXT,
	method              TEXT,
	url                 TEXT
);
CREATE INDEX IF NOT EXISTS idx_osd_matches_article ON osd_matches(article_id, rank);
`

const selectMatches = `
SELECT article_id, article_title, total_osds_compared,
       osd_id, osd_title, similarity, confidence, method, url
FROM osd_matches
ORDER BY article_id, rank`

// Querier is the subset of a pgx pool the source needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads match rows from PostgreSQL and groups them by article
type PostgresSource struct {
	db    Querier
	close func()
}

// NewPostgresSource connects to the database named by dsn
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A catalog load is one sequential scan
	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PostgresSource{db: pool, close: pool.Close}, nil
}

// NewPostgresSourceWithQuerier creates a source on an existing connection
func NewPostgresSourceWithQuerier(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres:osd_matches" }
func (s *PostgresSource) Type() string { return "postgres" }

// Close releases the connection pool if the source owns one
func (s *PostgresSource) Close() {
	if s.close != nil {
		s.close()
	}
}

// Load scans every match row. Articles appear in id order; rows with a
// NULL osd_id still create the article entry so empty articles survive.
func (s *PostgresSource) Load(ctx context.Context) ([]MatchEntry, error) {
	rows, err := s.db.Query(ctx, selectMatches)
	if err != nil {
		return nil, fmt.Errorf("query osd_matches: %w", err)
	}
	defer rows.Close()

	var (
		entries []MatchEntry
		index   = make(map[string]int)
	)
	for rows.Next() {
		var (
			articleID, articleTitle      string
			total                        int
			osdID, osdTitle              *string
			similarity                   *float64
			confidence, method, matchURL *string
		)
		if err := rows.Scan(&articleID, &articleTitle, &total,
			&osdID, &osdTitle, &similarity, &confidence, &method, &matchURL); err != nil {
			return nil, fmt.Errorf("scan osd_matches row: %w", err)
		}

		i, ok := index[articleID]
		if !ok {
			i = len(entries)
			index[articleID] = i
			entries = append(entries, MatchEntry{
				ArticleID:         articleID,
				ArticleTitle:      articleTitle,
				TotalOSDsCompared: total,
			})
		}

		if osdID == nil {
			continue
		}
		entries[i].OSDMatches = append(entries[i].OSDMatches, Match{
			OSDID:      *osdID,
			Title:      deref(osdTitle),
			Similarity: derefFloat(similarity),
			Confidence: deref(confidence),
			Method:     deref(method),
			URL:        deref(matchURL),
		})
		entries[i].MatchesFound = len(entries[i].OSDMatches)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate osd_matches: %w", err)
	}

	return entries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
