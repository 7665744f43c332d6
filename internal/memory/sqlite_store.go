package memory

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
// Vector similarity search is performed in application memory using cosine similarity.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore connected to the given database path.
// The path should be a file path (e.g., "./data.db") or ":memory:" for an in-memory database.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InitSchema creates the necessary tables if they don't exist.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS responder_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			rule_content TEXT NOT NULL,
			priority INTEGER DEFAULT 1,
			is_active INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS exchanges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			prompt TEXT,
			reply TEXT,
			embedding BLOB,
			occurred_at TEXT DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_exchanges_conversation ON exchanges(conversation_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// GetRules retrieves all active rules from the database.
func (s *SQLiteStore) GetRules(ctx context.Context) ([]string, error) {
	query := `
		SELECT rule_content
		FROM responder_rules
		WHERE is_active = 1
		ORDER BY priority DESC, category, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []string
	for rows.Next() {
		var rule string
		if err := rows.Scan(&rule); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// AddRule stores a new active rule.
func (s *SQLiteStore) AddRule(ctx context.Context, category, content string, priority int) error {
	query := `INSERT INTO responder_rules (category, rule_content, priority) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, category, content, priority); err != nil {
		return fmt.Errorf("failed to add rule: %w", err)
	}
	return nil
}

// SaveExchange stores a prompt/reply pair in the exchanges table.
func (s *SQLiteStore) SaveExchange(ctx context.Context, conversationID, prompt, reply string, vector []float32) error {
	query := `
		INSERT INTO exchanges (conversation_id, prompt, reply, embedding)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, conversationID, prompt, reply, encodeVector(vector)); err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// SearchSimilar loads the conversation's embeddings and ranks them by cosine
// similarity to queryVector. Embeddings of a different dimension are skipped.
func (s *SQLiteStore) SearchSimilar(ctx context.Context, conversationID string, queryVector []float32, limit int) ([]Exchange, error) {
	query := `
		SELECT id, conversation_id, prompt, reply, embedding, occurred_at
		FROM exchanges
		WHERE conversation_id = ? AND embedding IS NOT NULL
	`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var results []Exchange
	for rows.Next() {
		var ex Exchange
		var embeddingBlob []byte
		var occurredAtStr string
		if err := rows.Scan(&ex.ID, &ex.ConversationID, &ex.Prompt, &ex.Reply, &embeddingBlob, &occurredAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}

		ex.OccurredAt, _ = parseTimestamp(occurredAtStr)

		storedVector := decodeVector(embeddingBlob)
		if len(storedVector) > 0 && len(storedVector) == len(queryVector) {
			ex.SimilarityScore = cosineSimilarity(queryVector, storedVector)
			results = append(results, ex)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})

	topK := max(0, min(limit, len(results)))
	return results[:topK], nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector converts a float32 slice to little-endian bytes.
func encodeVector(v []float32) []byte {
	if v == nil {
		return nil
	}
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(b []byte) []float32 {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

// cosineSimilarity returns a value in [-1, 1]; 0 when either vector has no magnitude.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// parseTimestamp parses the TEXT timestamps SQLite produces.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02T15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

var _ Store = (*SQLiteStore)(nil)
