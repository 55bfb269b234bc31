package sqlite

// schemaSQL creates the single documents table. Every collection shares it;
// bodies are JSON objects without the id.
const schemaSQL = `
CREATE TABLE documents (
    collection TEXT NOT NULL,
    doc_id TEXT NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (collection, doc_id)
);

CREATE INDEX idx_documents_owner ON documents (collection, CAST(json_extract(body, '$.createdBy') AS TEXT));
`
