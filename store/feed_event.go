package store

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// FeedEvent is one row of the append-only event log. Rows are produced by
// an external, already-verified ingestion pipeline; the cid is an opaque
// pointer into the content-addressed store and did is not checked against
// the identity registry.
type FeedEvent struct {
	ID   int64
	Cid  string
	Did  string
	Type string
	Ts   int64
}

// FindFeedEvent is the find condition for feed event.
// Results are always newest-first.
type FindFeedEvent struct {
	Type *string

	// Pagination
	Limit  *int
	Offset *int
}

// feedLogRecord is the wire shape of one newline-delimited log row.
type feedLogRecord struct {
	Cid  string `json:"cid"`
	Did  string `json:"did"`
	Type string `json:"type"`
	Ts   string `json:"ts"`
}

// CreateFeedEvent appends a single event row.
func (s *Store) CreateFeedEvent(ctx context.Context, create *FeedEvent) (*FeedEvent, error) {
	return s.driver.CreateFeedEvent(ctx, create)
}

// ListFeedEvents lists event rows, newest first.
func (s *Store) ListFeedEvents(ctx context.Context, find *FindFeedEvent) ([]*FeedEvent, error) {
	return s.driver.ListFeedEvents(ctx, find)
}

// IngestFeedLog reads newline-delimited JSON records {cid, did, type, ts}
// from r and appends them to the event log. Malformed lines are skipped
// with a warning; a bad row never aborts the rest of the batch.
// Returns the number of rows ingested.
func (s *Store) IngestFeedLog(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ingested := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record feedLogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("skipping malformed feed log line",
				"line", lineNo,
				"error", err,
			)
			continue
		}
		if record.Cid == "" {
			slog.Warn("skipping feed log line without cid", "line", lineNo)
			continue
		}

		ts, err := time.Parse(time.RFC3339, record.Ts)
		if err != nil {
			slog.Warn("skipping feed log line with invalid timestamp",
				"line", lineNo,
				"ts", record.Ts,
				"error", err,
			)
			continue
		}

		if _, err := s.driver.CreateFeedEvent(ctx, &FeedEvent{
			Cid:  record.Cid,
			Did:  record.Did,
			Type: record.Type,
			Ts:   ts.Unix(),
		}); err != nil {
			return ingested, err
		}
		ingested++
	}
	if err := scanner.Err(); err != nil {
		return ingested, err
	}
	return ingested, nil
}
