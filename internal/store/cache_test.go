package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/hbudget/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "hbudget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSettingsKV(t *testing.T) {
	c := openTemp(t)

	_, ok, err := c.Get("forecast_inputs_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("forecast_inputs_v1", []byte(`{"version":1}`)))
	require.NoError(t, c.Put("forecast_inputs_v1", []byte(`{"version":1,"monthsAhead":6}`)))

	v, ok, err := c.Get("forecast_inputs_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"version":1,"monthsAhead":6}`, string(v))

	require.NoError(t, c.Delete("forecast_inputs_v1"))
	require.NoError(t, c.Delete("never-set"))
	_, ok, err = c.Get("forecast_inputs_v1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshots(t *testing.T) {
	c := openTemp(t)

	_, _, err := c.LoadSnapshot("DATA_TRANSACTIONS")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	at := time.Date(2024, time.March, 5, 14, 30, 0, 123, time.UTC)
	tbl := model.Table{
		Headers: []string{"Date", "Transaction", "Amount"},
		Rows:    [][]string{{"2024-03-05", "Coffee Shop", "-12.50"}, {"2024-03-06", "", ""}},
	}
	require.NoError(t, c.SaveSnapshot("DATA_TRANSACTIONS", tbl, at))
	require.NoError(t, c.SaveSnapshot("PLAN", model.Table{Headers: []string{}, Rows: [][]string{}}, at))

	got, gotAt, err := c.LoadSnapshot("DATA_TRANSACTIONS")
	require.NoError(t, err)
	assert.Equal(t, tbl, got)
	assert.True(t, at.Equal(gotAt))

	infos, err := c.Snapshots()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "DATA_TRANSACTIONS", infos[0].Sheet)
	assert.Equal(t, 2, infos[0].Rows)

	require.NoError(t, c.Put("k", []byte("v")))
	require.NoError(t, c.ClearSnapshots())
	infos, err = c.Snapshots()
	require.NoError(t, err)
	assert.Empty(t, infos)
	_, ok, _ := c.Get("k")
	assert.True(t, ok)
}
