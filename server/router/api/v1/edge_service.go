package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/store"
)

type edgePayload struct {
	Src         string  `json:"src"`
	Dst         string  `json:"dst"`
	Weight      float64 `json:"weight"`
	EvidenceRef *string `json:"evidenceRef,omitempty"`
	CreatedTs   int64   `json:"createdTs,omitempty"`
}

func convertEdge(edge *store.Edge) *edgePayload {
	return &edgePayload{
		Src:         edge.Src,
		Dst:         edge.Dst,
		Weight:      edge.Weight,
		EvidenceRef: edge.EvidenceRef,
		CreatedTs:   edge.CreatedTs,
	}
}

func (s *APIV1Service) upsertEdge(c echo.Context) error {
	var request edgePayload
	if err := c.Bind(&request); err != nil {
		return errorResponse(c, apperrors.InvalidArgument("malformed request body"))
	}
	if request.Src == "" || request.Dst == "" {
		return errorResponse(c, apperrors.InvalidArgument("edge src and dst are required"))
	}

	edge, err := s.Store.UpsertEdge(c.Request().Context(), &store.Edge{
		Src:         request.Src,
		Dst:         request.Dst,
		Weight:      request.Weight,
		EvidenceRef: request.EvidenceRef,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	s.publish("edge.upserted", map[string]any{
		"src":    edge.Src,
		"dst":    edge.Dst,
		"weight": edge.Weight,
	})
	return c.JSON(http.StatusOK, convertEdge(edge))
}

func (s *APIV1Service) listEdges(c echo.Context) error {
	find := &store.FindEdge{}
	if src := c.QueryParam("src"); src != "" {
		find.Src = &src
	}
	if dst := c.QueryParam("dst"); dst != "" {
		find.Dst = &dst
	}

	list, err := s.Store.ListEdges(c.Request().Context(), find)
	if err != nil {
		return errorResponse(c, err)
	}
	response := make([]*edgePayload, 0, len(list))
	for _, edge := range list {
		response = append(response, convertEdge(edge))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) deleteEdge(c echo.Context) error {
	src := c.QueryParam("src")
	dst := c.QueryParam("dst")
	if src == "" || dst == "" {
		return errorResponse(c, apperrors.InvalidArgument("edge src and dst are required"))
	}

	if err := s.Store.DeleteEdge(c.Request().Context(), &store.DeleteEdge{Src: src, Dst: dst}); err != nil {
		return errorResponse(c, err)
	}
	s.publish("edge.deleted", map[string]any{"src": src, "dst": dst})
	return c.NoContent(http.StatusNoContent)
}
