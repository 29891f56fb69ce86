package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/dmitrijs2005/auditdesk/internal/server/config"
	"github.com/dmitrijs2005/auditdesk/internal/server/storage"
)

func TestOpenStorage_MemoryWithoutEndpoint(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.S3BaseEndpoint = ""

	st, err := openStorage(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, st)
}

func TestOpenStorage_S3WithEndpoint(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()

	st, err := openStorage(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Storage{}, st)
}
