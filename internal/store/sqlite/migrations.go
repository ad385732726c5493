package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL,
    updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS created_aliases (
    alias          TEXT NOT NULL,
    target_address TEXT NOT NULL,
    created_at     DATETIME NOT NULL,
    created_for    TEXT
);

CREATE INDEX IF NOT EXISTS idx_created_aliases_alias ON created_aliases(alias);
`
