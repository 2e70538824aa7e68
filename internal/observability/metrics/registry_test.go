package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDBQuery(t *testing.T) {
	DBQueryDuration.Reset()

	RecordDBQuery("get", 5*time.Millisecond, nil)
	RecordDBQuery("get", 7*time.Millisecond, nil)
	RecordDBQuery("create", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(DBQueryDuration))
}

func TestSetBuildInfo(t *testing.T) {
	SetBuildInfo("v1.0.0", "postgres")
	SetBuildInfo("v1.0.1", "sqlite")

	// 古いラベルは残らない
	assert.Equal(t, 1, testutil.CollectAndCount(BuildInfo))
	assert.Equal(t, 1.0, testutil.ToFloat64(BuildInfo.WithLabelValues("v1.0.1", "sqlite")))
}

func TestRegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterDBStats(reg, db, "documents"))
	require.NoError(t, RegisterDBStats(reg, db, "documents"), "second registration is ignored")

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_sql_open_connections")
	assert.Contains(t, names, "go_sql_max_open_connections")
}
