package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/store"
)

type lensPayload struct {
	ID        string             `json:"id,omitempty"`
	Label     string             `json:"label,omitempty"`
	Lambda    float64            `json:"lambda"`
	Seeds     map[string]float64 `json:"seeds,omitempty"`
	CreatedTs int64              `json:"createdTs,omitempty"`
}

func convertLens(lens *store.Lens) *lensPayload {
	return &lensPayload{
		ID:        lens.ID,
		Label:     lens.Label,
		Lambda:    lens.Lambda,
		Seeds:     lens.Seeds,
		CreatedTs: lens.CreatedTs,
	}
}

func (s *APIV1Service) createLens(c echo.Context) error {
	var request lensPayload
	if err := c.Bind(&request); err != nil {
		return errorResponse(c, apperrors.InvalidArgument("malformed request body"))
	}

	lens, err := s.Store.CreateLens(c.Request().Context(), &store.Lens{
		ID:     request.ID,
		Label:  request.Label,
		Lambda: request.Lambda,
		Seeds:  request.Seeds,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	s.publish("lens.created", map[string]any{"id": lens.ID})
	return c.JSON(http.StatusOK, convertLens(lens))
}

func (s *APIV1Service) listLenses(c echo.Context) error {
	list, err := s.Store.ListLenses(c.Request().Context(), &store.FindLens{})
	if err != nil {
		return errorResponse(c, err)
	}
	response := make([]*lensPayload, 0, len(list))
	for _, lens := range list {
		response = append(response, convertLens(lens))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) deleteLens(c echo.Context) error {
	id := c.Param("id")
	lens, err := s.Store.GetLens(c.Request().Context(), &store.FindLens{ID: &id})
	if err != nil {
		return errorResponse(c, err)
	}
	if lens == nil {
		return errorResponse(c, apperrors.LensNotFound(id))
	}

	if err := s.Store.DeleteLens(c.Request().Context(), &store.DeleteLens{ID: id}); err != nil {
		return errorResponse(c, err)
	}
	s.publish("lens.deleted", map[string]any{"id": id})
	return c.NoContent(http.StatusNoContent)
}
