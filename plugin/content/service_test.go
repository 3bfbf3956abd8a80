package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

const (
	testCid     = "bafytestrecord0000000001"
	missingCid  = "bafytestrecord0000000404"
	garbageCid  = "bafytestrecord0000000bad"
	untitledCid = "bafytestrecord00000title"
)

func newTestBackend(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		switch r.URL.Path {
		case "/" + testCid:
			fmt.Fprint(w, `{
				"title": "A fine post",
				"type": "article",
				"meta": {"publisher": "did:example:alice", "createdAt": "2026-08-20T12:00:00Z"},
				"love": 0.8,
				"evidence": ["bafyevidence000000000001", "bafyevidence000000000002"]
			}`)
		case "/" + garbageCid:
			fmt.Fprint(w, `this is not json`)
		case "/" + untitledCid:
			fmt.Fprint(w, `{
				"content": "# Derived Heading\n\nbody text",
				"meta": {"publisher": "did:example:bob", "createdAt": "2026-08-21T08:30:00Z"},
				"love": 0.5,
				"evidence": []
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, hits *int64) *CachingService {
	t.Helper()
	srv := newTestBackend(t, hits)
	svc := NewCachingService(NewHTTPGateway(srv.URL, 1000, time.Second), 100)
	t.Cleanup(svc.Close)
	return svc
}

func TestFetchParsesRecord(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	record, err := svc.Fetch(ctx, testCid)
	require.NoError(t, err)
	require.Equal(t, testCid, record.Cid)
	require.Equal(t, "A fine post", record.Title)
	require.Equal(t, "article", record.Type)
	require.Equal(t, "did:example:alice", record.Publisher)
	require.NotNil(t, record.Love)
	require.Equal(t, 0.8, *record.Love)
	require.Len(t, record.Evidence, 2)
	require.Equal(t, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), record.CreatedAt.UTC())
}

func TestFetchCaches(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	for i := 0; i < 5; i++ {
		_, err := svc.Fetch(ctx, testCid)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestFetchCoalescesConcurrent(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Fetch(ctx, testCid)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestFetchInvalidCid(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	_, err := svc.Fetch(ctx, "../../../etc/passwd")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidCid))
	require.Equal(t, int64(0), atomic.LoadInt64(&hits))
}

func TestFetchMissingRecord(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	_, err := svc.Fetch(ctx, missingCid)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeFetchError))
}

func TestFetchMalformedRecord(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	_, err := svc.Fetch(ctx, garbageCid)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeParseError))
}

func TestFetchDerivesTitleFromContent(t *testing.T) {
	ctx := context.Background()
	var hits int64
	svc := newTestService(t, &hits)

	record, err := svc.Fetch(ctx, untitledCid)
	require.NoError(t, err)
	require.Equal(t, "Derived Heading", record.Title)
}

func TestIsValidCid(t *testing.T) {
	tests := []struct {
		cid  string
		want bool
	}{
		{"bafytestrecord0000000001", true},
		{"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", true},
		{"short", false},
		{"", false},
		{"bafy/../../escape00000000", false},
		{"bafy.test.record.0000001", false},
		{"has spaces here 00000000", false},
		{strings.Repeat("a", 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.cid, func(t *testing.T) {
			require.Equal(t, tt.want, IsValidCid(tt.cid))
		})
	}
}
