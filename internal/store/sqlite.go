// Package store persists annotated documents in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	sacr "github.com/jamesainslie/go-sacr"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a document ID does not exist.
var ErrNotFound = errors.New("store: document not found")

// Store handles database operations.
type Store struct {
	db *sql.DB
}

// Record describes a stored document without its content.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Mentions  int       `json:"mentions"`
	CreatedAt time.Time `json:"created_at"`
}

// Stored is a document loaded back from the store.
type Stored struct {
	Record
	Document *sacr.Document
}

// ClassCount is the number of stored mentions carrying a class.
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// New opens the database at dbPath and creates the schema if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument stores doc with all its mentions in one transaction and
// returns the new record.
func (s *Store) SaveDocument(ctx context.Context, name, title string, doc *sacr.Document) (*Record, error) {
	sentences, err := json.Marshal(doc.Sentences)
	if err != nil {
		return nil, fmt.Errorf("encode sentences: %w", err)
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Name:      name,
		Title:     title,
		Mentions:  len(doc.Mentions),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents (id, name, title, raw, text, sentences, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, name, title, doc.Raw, doc.Text, string(sentences), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	mentionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mentions (document_id, mention_id, class, text, start_offset, end_offset, depth,
			pronoun, proper, sent, cluster, per, org, loc, ner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare mention insert: %w", err)
	}
	defer mentionStmt.Close()

	labelStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO mention_labels (document_id, mention_id, position, label) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare label insert: %w", err)
	}
	defer labelStmt.Close()

	for _, m := range doc.Mentions {
		_, err := mentionStmt.ExecContext(ctx,
			rec.ID, m.ID, m.Class, m.Text, m.Offset.Start, m.Offset.End, m.Depth,
			m.Pronoun, m.Proper, m.Sent, m.Cluster, m.Per, m.Org, m.Loc, m.NER,
		)
		if err != nil {
			return nil, fmt.Errorf("insert mention %d: %w", m.ID, err)
		}
		for i, label := range m.Labels {
			if _, err := labelStmt.ExecContext(ctx, rec.ID, m.ID, i, label); err != nil {
				return nil, fmt.Errorf("insert label %q of mention %d: %w", label, m.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// GetDocument loads a document and its mentions.
func (s *Store) GetDocument(ctx context.Context, id string) (*Stored, error) {
	var (
		st        Stored
		doc       sacr.Document
		sentences string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.title, d.created_at, d.raw, d.text, d.sentences,
			(SELECT COUNT(*) FROM mentions m WHERE m.document_id = d.id)
		FROM documents d WHERE d.id = ?`,
		id,
	).Scan(&st.ID, &st.Name, &st.Title, &st.CreatedAt, &doc.Raw, &doc.Text, &sentences, &st.Mentions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	if err := json.Unmarshal([]byte(sentences), &doc.Sentences); err != nil {
		return nil, fmt.Errorf("decode sentences: %w", err)
	}

	doc.Mentions, err = s.Mentions(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Document = &doc

	return &st, nil
}

// ListDocuments returns stored documents, oldest first, with pagination.
func (s *Store) ListDocuments(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.title, d.created_at,
			(SELECT COUNT(*) FROM mentions m WHERE m.document_id = d.id)
		FROM documents d
		ORDER BY d.created_at, d.name
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Title, &r.CreatedAt, &r.Mentions); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Mentions returns the mentions of a document ordered by ID.
func (s *Store) Mentions(ctx context.Context, documentID string) ([]sacr.Mention, error) {
	return s.queryMentions(ctx, "", documentID)
}

// MentionsByLabel returns the mentions of a document that carry label.
func (s *Store) MentionsByLabel(ctx context.Context, documentID, label string) ([]sacr.Mention, error) {
	return s.queryMentions(ctx, `AND EXISTS (
		SELECT 1 FROM mention_labels l
		WHERE l.document_id = m.document_id AND l.mention_id = m.mention_id AND l.label = ?)`,
		documentID, label)
}

// Classes returns mention counts per class across all documents, most
// frequent first.
func (s *Store) Classes(ctx context.Context) ([]ClassCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT class, COUNT(*) AS n FROM mentions GROUP BY class ORDER BY n DESC, class",
	)
	if err != nil {
		return nil, fmt.Errorf("count classes: %w", err)
	}
	defer rows.Close()

	var counts []ClassCount
	for rows.Next() {
		var c ClassCount
		if err := rows.Scan(&c.Class, &c.Count); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (s *Store) queryMentions(ctx context.Context, filter, documentID string, args ...any) ([]sacr.Mention, error) {
	labels, err := s.labels(ctx, documentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.mention_id, m.class, m.text, m.start_offset, m.end_offset, m.depth,
			m.pronoun, m.proper, m.sent, m.cluster, m.per, m.org, m.loc, m.ner
		FROM mentions m
		WHERE m.document_id = ? `+filter+`
		ORDER BY m.mention_id`,
		append([]any{documentID}, args...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []sacr.Mention
	for rows.Next() {
		var m sacr.Mention
		err := rows.Scan(&m.ID, &m.Class, &m.Text, &m.Offset.Start, &m.Offset.End, &m.Depth,
			&m.Pronoun, &m.Proper, &m.Sent, &m.Cluster, &m.Per, &m.Org, &m.Loc, &m.NER)
		if err != nil {
			return nil, fmt.Errorf("scan mention: %w", err)
		}
		m.Labels = labels[m.ID]
		mentions = append(mentions, m)
	}

	return mentions, rows.Err()
}

func (s *Store) labels(ctx context.Context, documentID string) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT mention_id, label FROM mention_labels WHERE document_id = ? ORDER BY mention_id, position",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()

	labels := make(map[int][]string)
	for rows.Next() {
		var (
			id    int
			label string
		)
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels[id] = append(labels[id], label)
	}

	return labels, rows.Err()
}
