package profile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   t.TempDir(),
	}
	require.NoError(t, p.Validate())

	require.Equal(t, "dev", p.Mode)
	require.Equal(t, filepath.Join(p.Data, "trustfeed_dev.db"), p.DSN)

	require.Equal(t, 5*time.Second, p.FetchTimeout)
	require.Equal(t, 8, p.FetchParallelism)
	require.Equal(t, 50.0, p.FetchRatePerSec)
	require.Equal(t, 0.85, p.TrustAlpha)
	require.Equal(t, 0.5, p.TrustBeta)
	require.Equal(t, 50, p.TrustIterations)
	require.Equal(t, 500, p.FeedWindow)
	require.Equal(t, 200, p.FeedLimit)
}

func TestValidateModeFallback(t *testing.T) {
	p := &Profile{Mode: "bogus", Driver: "sqlite", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	require.Equal(t, "demo", p.Mode)
	require.True(t, p.IsDev())
}

func TestValidateKeepsExplicitTunables(t *testing.T) {
	p := &Profile{
		Mode:            "dev",
		Driver:          "sqlite",
		Data:            t.TempDir(),
		TrustAlpha:      0.6,
		TrustIterations: 10,
		FeedWindow:      100,
	}
	require.NoError(t, p.Validate())
	require.Equal(t, 0.6, p.TrustAlpha)
	require.Equal(t, 10, p.TrustIterations)
	require.Equal(t, 100, p.FeedWindow)
}

func TestValidateMissingDataDir(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: "/no/such/dir/anywhere"}
	require.Error(t, p.Validate())
}
