package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
    key                  TEXT PRIMARY KEY,
    value                BLOB NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
    sheet                TEXT PRIMARY KEY,
    headers              TEXT NOT NULL,
    rows_json            TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    fetched_at           TEXT NOT NULL
);
`
