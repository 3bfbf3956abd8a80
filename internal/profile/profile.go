package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where trustfeed stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your trustfeed instance.
	InstanceURL string

	// Content gateway configuration
	GatewayURL       string        // TRUSTFEED_GATEWAY_URL: base URL of the content-addressed backend
	FetchTimeout     time.Duration // TRUSTFEED_FETCH_TIMEOUT: per-fetch timeout (default: 5s)
	FetchParallelism int           // TRUSTFEED_FETCH_PARALLELISM: max concurrent content fetches (default: 8)
	FetchRatePerSec  float64       // TRUSTFEED_FETCH_RATE: outbound requests per second to the gateway (default: 50)

	// Ranking configuration
	TrustAlpha      float64 // TRUSTFEED_TRUST_ALPHA: propagation weight (default: 0.85)
	TrustBeta       float64 // TRUSTFEED_TRUST_BETA: distrust penalty strength (default: 0.5)
	TrustIterations int     // TRUSTFEED_TRUST_ITERATIONS: fixed iteration budget (default: 50)
	FeedWindow      int     // TRUSTFEED_FEED_WINDOW: event log rows considered per pass (default: 500)
	FeedLimit       int     // TRUSTFEED_FEED_LIMIT: max entries in a ranked feed (default: 200)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "trustfeed")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/trustfeed"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("trustfeed_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	p.applyRankDefaults()
	return nil
}

// applyRankDefaults fills unset tunables with reference values.
func (p *Profile) applyRankDefaults() {
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 5 * time.Second
	}
	if p.FetchParallelism <= 0 {
		p.FetchParallelism = 8
	}
	if p.FetchRatePerSec <= 0 {
		p.FetchRatePerSec = 50
	}
	if p.TrustAlpha <= 0 || p.TrustAlpha >= 1 {
		p.TrustAlpha = 0.85
	}
	if p.TrustBeta <= 0 {
		p.TrustBeta = 0.5
	}
	if p.TrustIterations <= 0 {
		p.TrustIterations = 50
	}
	if p.FeedWindow <= 0 {
		p.FeedWindow = 500
	}
	if p.FeedLimit <= 0 {
		p.FeedLimit = 200
	}
}
