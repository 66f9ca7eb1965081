package batch_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdbcurl/internal/batch"
	"jdbcurl/pkg/jdbc"
)

func TestParse(t *testing.T) {
	urls := []string{
		"jdbc:mysql://localhost:3306/mydatabase?user=root&password=secret",
		"jdbc:unknown://host/db",
		"jdbc:oracle://192.168.1.100/testdb",
		"jdbc:mysql://host:99999/db",
		"jdbc:sqlite:///home/user/database.db",
	}

	results, err := batch.Parse(context.Background(), urls, batch.Config{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, len(urls))

	for i, result := range results {
		assert.Equal(t, urls[i], result.URL)
	}

	assert.True(t, results[0].OK())
	assert.Equal(t, jdbc.KindMySQL, results[0].Descriptor.Kind)

	assert.False(t, results[1].OK())
	assert.True(t, jdbc.ErrUnsupportedKind.Has(results[1].Err))

	assert.True(t, results[2].OK())
	assert.Equal(t, "1521", results[2].Descriptor.Port)

	assert.False(t, results[3].OK())
	assert.True(t, jdbc.ErrInvalidPort.Has(results[3].Err))

	assert.True(t, results[4].OK())
	assert.Equal(t, jdbc.KindSQLite, results[4].Descriptor.Kind)

	assert.Equal(t, 2, batch.Failed(results))
}

func TestParseWorkers(t *testing.T) {
	urls := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		urls = append(urls, fmt.Sprintf("jdbc:postgresql://db%d:%d/app", i, 5000+i))
	}

	for _, workers := range []int{-1, 0, 1, 8, 1000} {
		results, err := batch.Parse(context.Background(), urls, batch.Config{Workers: workers})
		require.NoError(t, err)
		require.Len(t, results, len(urls))
		assert.Equal(t, 0, batch.Failed(results))

		for i, result := range results {
			assert.Equal(t, fmt.Sprintf("db%d", i), result.Descriptor.Host)
			assert.Equal(t, fmt.Sprintf("%d", 5000+i), result.Descriptor.Port)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	results, err := batch.Parse(context.Background(), nil, batch.Config{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, batch.Failed(results))
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{"jdbc:oracle://host/db", "jdbc:mysql://host/db"}
	results, err := batch.Parse(ctx, urls, batch.Config{Workers: 1})
	require.Error(t, err)
	assert.True(t, batch.Error.Has(err))
	require.Len(t, results, len(urls))

	for i, result := range results {
		assert.Equal(t, urls[i], result.URL)
		assert.False(t, result.OK())
		assert.ErrorIs(t, result.Err, context.Canceled)
	}
	assert.Equal(t, 2, batch.Failed(results))
}
