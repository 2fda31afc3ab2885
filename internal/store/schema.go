package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS advice (
    request_key          TEXT PRIMARY KEY,
    provider             TEXT NOT NULL,
    model                TEXT NOT NULL,
    prompt               TEXT NOT NULL,
    response             TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_advice_created ON advice(created_at);
`
