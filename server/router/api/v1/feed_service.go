package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/server/feedrank"
	"github.com/openlens/trustfeed/server/trustrank"
	"github.com/openlens/trustfeed/store"
)

func (s *APIV1Service) ingestFeedEvents(c echo.Context) error {
	ingested, err := s.Store.IngestFeedLog(c.Request().Context(), c.Request().Body)
	if err != nil {
		return errorResponse(c, err)
	}
	s.publish("feed.ingested", map[string]any{"count": ingested})
	return c.JSON(http.StatusOK, map[string]any{"ingested": ingested})
}

func (s *APIV1Service) rankOptions(c echo.Context) (feedrank.Options, error) {
	opts := feedrank.Options{
		Window:      s.Profile.FeedWindow,
		Limit:       s.Profile.FeedLimit,
		Parallelism: int64(s.Profile.FetchParallelism),
		Filter:      c.QueryParam("filter"),
		Trust: trustrank.Options{
			Alpha:      s.Profile.TrustAlpha,
			Beta:       s.Profile.TrustBeta,
			Iterations: s.Profile.TrustIterations,
		},
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return opts, apperrors.InvalidArgument(fmt.Sprintf("invalid limit %q", raw))
		}
		opts.Limit = limit
	}
	return opts, nil
}

func (s *APIV1Service) getFeed(c echo.Context) error {
	lensID := c.QueryParam("lens")
	if lensID == "" {
		return errorResponse(c, apperrors.InvalidArgument("lens query parameter is required"))
	}
	opts, err := s.rankOptions(c)
	if err != nil {
		return errorResponse(c, err)
	}

	items, err := s.Ranker.RankFeed(c.Request().Context(), lensID, opts)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"lens":  lensID,
		"items": items,
	})
}

func (s *APIV1Service) getFeedRSS(c echo.Context) error {
	lensID := c.QueryParam("lens")
	if lensID == "" {
		return errorResponse(c, apperrors.InvalidArgument("lens query parameter is required"))
	}
	lens, err := s.Store.GetLens(c.Request().Context(), &store.FindLens{ID: &lensID})
	if err != nil {
		return errorResponse(c, err)
	}
	if lens == nil {
		return errorResponse(c, apperrors.LensNotFound(lensID))
	}
	opts, err := s.rankOptions(c)
	if err != nil {
		return errorResponse(c, err)
	}

	items, err := s.Ranker.RankFeed(c.Request().Context(), lensID, opts)
	if err != nil {
		return errorResponse(c, err)
	}

	title := lens.Label
	if title == "" {
		title = lens.ID
	}
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("trustfeed: %s", title),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/feed?lens=%s", s.Profile.InstanceURL, lensID)},
		Description: "Personalized feed ranked by trust, quality and recency.",
	}
	for _, item := range items {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          item.Cid,
			Title:       item.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/%s", s.Profile.GatewayURL, item.Cid)},
			Author:      &feeds.Author{Name: item.Publisher},
			Description: fmt.Sprintf("score %.4f, trust %.4f, love %.4f", item.Score, item.Trust, item.Love),
			Created:     item.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
