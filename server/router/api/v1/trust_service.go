package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/server/trustrank"
	"github.com/openlens/trustfeed/store"
)

type computeTrustRequest struct {
	// Edges overrides the stored graph when present; a nil slice means
	// "compute over the stored edges".
	Edges      []*edgePayload     `json:"edges"`
	Seeds      map[string]float64 `json:"seeds"`
	Alpha      float64            `json:"alpha,omitempty"`
	Beta       float64            `json:"beta,omitempty"`
	Iterations int                `json:"iterations,omitempty"`
}

func (s *APIV1Service) computeTrust(c echo.Context) error {
	var request computeTrustRequest
	if err := c.Bind(&request); err != nil {
		return errorResponse(c, apperrors.InvalidArgument("malformed request body"))
	}
	for id, weight := range request.Seeds {
		if weight < 0 {
			return errorResponse(c, apperrors.InvalidLens("seed weight for "+id+" must be non-negative"))
		}
	}

	var edges []*store.Edge
	if request.Edges != nil {
		edges = make([]*store.Edge, 0, len(request.Edges))
		for _, e := range request.Edges {
			if e.Weight < -1 || e.Weight > 1 {
				return errorResponse(c, apperrors.InvalidWeight(e.Weight))
			}
			edges = append(edges, &store.Edge{Src: e.Src, Dst: e.Dst, Weight: e.Weight})
		}
	} else {
		var err error
		if edges, err = s.Store.ListEdges(c.Request().Context(), &store.FindEdge{}); err != nil {
			return errorResponse(c, err)
		}
	}

	opts := trustrank.Options{
		Alpha:      s.Profile.TrustAlpha,
		Beta:       s.Profile.TrustBeta,
		Iterations: s.Profile.TrustIterations,
	}
	if request.Alpha != 0 {
		if request.Alpha <= 0 || request.Alpha >= 1 {
			return errorResponse(c, apperrors.InvalidArgument(fmt.Sprintf("alpha must be in (0, 1), got %g", request.Alpha)))
		}
		opts.Alpha = request.Alpha
	}
	if request.Beta != 0 {
		if request.Beta < 0 {
			return errorResponse(c, apperrors.InvalidArgument(fmt.Sprintf("beta must be non-negative, got %g", request.Beta)))
		}
		opts.Beta = request.Beta
	}
	if request.Iterations != 0 {
		if request.Iterations < 0 {
			return errorResponse(c, apperrors.InvalidArgument(fmt.Sprintf("iterations must be positive, got %d", request.Iterations)))
		}
		opts.Iterations = request.Iterations
	}

	scores := trustrank.Compute(edges, request.Seeds, opts)
	return c.JSON(http.StatusOK, map[string]any{"scores": scores})
}
