package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"cortex/internal/chunker"
)

func init() {
	sqlite_vec.Auto()
}

// embedBatchSize bounds how many texts go to the embedder per request.
const embedBatchSize = 32

// Embedder turns texts into vectors. Satisfied by embedder.OllamaEmbedder.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// FileRecord tracks a file's content hash so unchanged files can be skipped
// on re-index.
type FileRecord struct {
	Path      string
	Hash      string
	IndexedAt time.Time
}

// SQLiteStore implements Gateway backed by SQLite + sqlite-vec, embedding
// document texts through the configured Embedder.
type SQLiteStore struct {
	db  *sql.DB
	emb Embedder
}

// Open creates or opens a SQLite database at the given path and initializes
// the schema.
func Open(dbPath string, emb Embedder) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db, emb: emb}, nil
}

// Upsert embeds the texts and stores (id, text, metadata) triples. Existing
// doc IDs are replaced in place, so re-indexing unchanged source is a no-op
// at the row level.
func (s *SQLiteStore) Upsert(ctx context.Context, ids []string, texts []string, metas []chunker.Metadata) error {
	if len(ids) != len(texts) || len(ids) != len(metas) {
		return gatewayErr("upsert", errMismatched(len(ids), len(texts), len(metas)))
	}
	if len(ids) == 0 {
		return nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += embedBatchSize {
		end := min(i+embedBatchSize, len(texts))
		embs, err := s.emb.Embed(ctx, texts[i:end])
		if err != nil {
			return gatewayErr("upsert", fmt.Errorf("embed: %w", err))
		}
		embeddings = append(embeddings, embs...)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return gatewayErr("upsert", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		metaJSON, err := json.Marshal(metas[i])
		if err != nil {
			return gatewayErr("upsert", fmt.Errorf("marshal metadata for %s: %w", id, err))
		}

		var rowid int64
		err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE doc_id = ?", id).Scan(&rowid)
		switch {
		case err == sql.ErrNoRows:
			res, err := tx.ExecContext(ctx,
				"INSERT INTO documents (doc_id, content, metadata) VALUES (?, ?, ?)",
				id, texts[i], string(metaJSON))
			if err != nil {
				return gatewayErr("upsert", err)
			}
			if rowid, err = res.LastInsertId(); err != nil {
				return gatewayErr("upsert", err)
			}
		case err != nil:
			return gatewayErr("upsert", err)
		default:
			if _, err := tx.ExecContext(ctx,
				"UPDATE documents SET content = ?, metadata = ? WHERE id = ?",
				texts[i], string(metaJSON), rowid); err != nil {
				return gatewayErr("upsert", err)
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM vec_documents WHERE document_id = ?", rowid); err != nil {
				return gatewayErr("upsert", err)
			}
		}

		blob, err := sqlite_vec.SerializeFloat32(embeddings[i])
		if err != nil {
			return gatewayErr("upsert", fmt.Errorf("serialize embedding for %s: %w", id, err))
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO vec_documents (document_id, embedding) VALUES (?, ?)", rowid, blob); err != nil {
			return gatewayErr("upsert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return gatewayErr("upsert", err)
	}
	return nil
}

// Query embeds the text and returns the topK nearest documents, best-first.
func (s *SQLiteStore) Query(ctx context.Context, text string, topK int) ([]Hit, error) {
	vec, err := s.emb.EmbedSingle(ctx, text)
	if err != nil {
		return nil, gatewayErr("query", fmt.Errorf("embed: %w", err))
	}
	blob, err := sqlite_vec.SerializeFloat32(vec)
	if err != nil {
		return nil, gatewayErr("query", fmt.Errorf("serialize query embedding: %w", err))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT v.distance, d.content, d.metadata
		FROM vec_documents v
		JOIN documents d ON d.id = v.document_id
		WHERE v.embedding MATCH ?
		ORDER BY v.distance
		LIMIT ?
	`, blob, topK)
	if err != nil {
		return nil, gatewayErr("query", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var distance float64
		var content, metaJSON string
		if err := rows.Scan(&distance, &content, &metaJSON); err != nil {
			return nil, gatewayErr("query", err)
		}
		var meta chunker.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, gatewayErr("query", fmt.Errorf("unmarshal metadata: %w", err))
		}
		hits = append(hits, Hit{
			Content: content,
			Meta:    meta,
			// Monotonic distance→relevance map; smaller distances rank higher.
			Score: 1.0 / (1.0 + distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, gatewayErr("query", err)
	}
	return hits, nil
}

// Count reports the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, gatewayErr("count", err)
	}
	return n, nil
}

// GetFileHash returns the stored content hash for a path, or "" if the file
// has not been indexed.
func (s *SQLiteStore) GetFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow("SELECT hash FROM files WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetFileHash records a file's content hash after its chunks are stored.
func (s *SQLiteStore) SetFileHash(path, hash string) error {
	_, err := s.db.Exec(`
		INSERT INTO files (path, hash, indexed_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, indexed_at = CURRENT_TIMESTAMP
	`, path, hash)
	return err
}

// ListFiles returns every indexed file record, ordered by path.
func (s *SQLiteStore) ListFiles() ([]FileRecord, error) {
	rows, err := s.db.Query("SELECT path, hash, indexed_at FROM files ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.Path, &f.Hash, &f.IndexedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetMeta returns a metadata value by key, or "" if not set.
func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMeta sets a metadata key-value pair.
func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Reset removes all documents, embeddings, and file records. Used for forced
// re-indexing.
func (s *SQLiteStore) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM vec_documents",
		"DELETE FROM documents",
		"DELETE FROM files",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
