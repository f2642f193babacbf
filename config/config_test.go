package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.ListenAddr)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "clinic_faq", cfg.Store.Collection)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.3, cfg.Retrieval.MinScore, 1e-9)
	assert.Equal(t, 1500, cfg.Retrieval.MaxContextTokens)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RETRIEVAL_TOP_K", "5")
	t.Setenv("RETRIEVAL_MIN_SCORE", "0.6")
	t.Setenv("SERVER_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.6, cfg.Retrieval.MinScore, 1e-9)
	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
}

func TestLoadVectorDimDefaultsToEmbedderSize(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 768, cfg.Store.PGVectorDim)
}

func TestLoadRejectsBadVectorDim(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("PG_VECTOR_DIM", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "dynamodb")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRetrievalBounds(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("RETRIEVAL_MIN_SCORE", "1.5")
	_, err = Load()
	assert.Error(t, err)
}

func TestStoreConfigDSN(t *testing.T) {
	c := StoreConfig{PGHost: "db", PGPort: 5433, PGUser: "u", PGPass: "p", PGName: "clinic"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=clinic sslmode=disable", c.DSN())
}
