package emit

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/animus-labs/fluid-go/tekton"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CatalogTable is the table compiled documents are recorded in.
const CatalogTable = "compiled_documents"

const createCatalogQuery = `CREATE TABLE IF NOT EXISTS %s (
	document_id      UUID PRIMARY KEY,
	compilation_id   TEXT NOT NULL,
	api_version      TEXT NOT NULL,
	kind             TEXT NOT NULL,
	name             TEXT NOT NULL,
	document         JSONB NOT NULL,
	integrity_sha256 TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (compilation_id, kind, name)
)`

const insertDocumentQuery = `INSERT INTO %s (
	document_id,
	compilation_id,
	api_version,
	kind,
	name,
	document,
	integrity_sha256
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (compilation_id, kind, name) DO NOTHING`

// Catalog records every compiled document of one compilation in Postgres.
// Documents are keyed by (compilation, kind, name): re-emitting the same
// record is a no-op.
type Catalog struct {
	db            DB
	schema        string
	table         string
	compilationID string
}

// NewCatalog records into schema.compiled_documents; an empty schema uses
// the connection's search_path.
func NewCatalog(db DB, schema, compilationID string) (*Catalog, error) {
	if db == nil {
		return nil, errors.New("catalog database is required")
	}
	compilationID = strings.TrimSpace(compilationID)
	if compilationID == "" {
		return nil, errors.New("compilation id is required")
	}
	schema = strings.TrimSpace(schema)
	table := pgx.Identifier{CatalogTable}
	if schema != "" {
		table = pgx.Identifier{schema, CatalogTable}
	}
	return &Catalog{db: db, schema: schema, table: table.Sanitize(), compilationID: compilationID}, nil
}

// Table is the quoted, schema-qualified catalog table.
func (c *Catalog) Table() string { return c.table }

func (c *Catalog) EnsureSchema(ctx context.Context) error {
	if c.schema != "" {
		if _, err := c.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{c.schema}.Sanitize()); err != nil {
			return fmt.Errorf("create catalog schema: %w", err)
		}
	}
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf(createCatalogQuery, c.table)); err != nil {
		return fmt.Errorf("create catalog table: %w", err)
	}
	return nil
}

func (c *Catalog) Emit(ctx context.Context, obj tekton.Object) error {
	body, integrity, err := IntegritySHA256(obj)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(
		ctx,
		fmt.Sprintf(insertDocumentQuery, c.table),
		uuid.NewString(),
		c.compilationID,
		obj.GetAPIVersion(),
		obj.GetKind(),
		obj.GetName(),
		body,
		integrity,
	)
	if err != nil {
		return fmt.Errorf("insert compiled document: %w", err)
	}
	return nil
}

// IntegritySHA256 returns the JSON form of obj and its hex SHA-256.
func IntegritySHA256(obj tekton.Object) ([]byte, string, error) {
	body, err := json.Marshal(obj)
	if err != nil {
		return nil, "", fmt.Errorf("marshal %s %s: %w", obj.GetKind(), obj.GetName(), err)
	}
	sum := sha256.Sum256(body)
	return body, hex.EncodeToString(sum[:]), nil
}
