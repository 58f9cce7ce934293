package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectRequiresDSN(t *testing.T) {
	pg, err := Connect(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, pg)
}

func TestCloseNilPoolIsNoop(t *testing.T) {
	var pg *Postgres
	require.NoError(t, pg.Close())
	require.NoError(t, (&Postgres{}).Close())
}
