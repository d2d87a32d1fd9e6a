package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/bestofn/internal/db"
)

// NewTestDB opens a private in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// QuizPage is a representative results page used across tests.
const QuizPage = `<html><head><title>Evalify</title><style>.x{content:"(1%)"}</style></head>
<body>
<h1>Quiz results</h1>
<table>
<tr><td>Quiz 1</td><td>(92%)</td></tr>
<tr><td>Quiz 2</td><td>(88.5%)</td></tr>
<tr><td>Quiz 3</td><td>(75%)</td></tr>
</table>
<script>var hidden = "(99%)";</script>
</body></html>`
