package repository

import (
	"testing"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := util.ParseTimestamp(s)
	require.NoError(t, err)
	return at
}
