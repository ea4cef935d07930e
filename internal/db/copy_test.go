package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	columns := []string{"id", "contact_id", "source_url", "page_type", "content_hash", "observed_at"}
	now := time.Now().UTC()
	rows := [][]any{
		{"src-1", "ct-1", "https://example.com/contact", "contact", "aaa", now},
		{"src-2", "ct-1", "https://example.com/", "homepage", "bbb", now},
	}

	mock.ExpectCopyFrom(pgx.Identifier{"contact_sources"}, columns).WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "contact_sources", columns, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromEmptyRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "contact_sources", []string{"id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
