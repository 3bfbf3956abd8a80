package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/store"
)

type identityPayload struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	CreatedTs int64  `json:"createdTs,omitempty"`
	UpdatedTs int64  `json:"updatedTs,omitempty"`
}

func convertIdentity(identity *store.Identity) *identityPayload {
	return &identityPayload{
		ID:        identity.ID,
		Label:     identity.Label,
		CreatedTs: identity.CreatedTs,
		UpdatedTs: identity.UpdatedTs,
	}
}

func (s *APIV1Service) registerIdentity(c echo.Context) error {
	var request identityPayload
	if err := c.Bind(&request); err != nil {
		return errorResponse(c, apperrors.InvalidArgument("malformed request body"))
	}
	if request.ID == "" {
		return errorResponse(c, apperrors.InvalidArgument("identity id is required"))
	}

	identity, err := s.Store.RegisterIdentity(c.Request().Context(), &store.Identity{
		ID:    request.ID,
		Label: request.Label,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	s.publish("identity.registered", map[string]any{"id": identity.ID})
	return c.JSON(http.StatusOK, convertIdentity(identity))
}

func (s *APIV1Service) listIdentities(c echo.Context) error {
	list, err := s.Store.ListIdentities(c.Request().Context(), &store.FindIdentity{})
	if err != nil {
		return errorResponse(c, err)
	}
	response := make([]*identityPayload, 0, len(list))
	for _, identity := range list {
		response = append(response, convertIdentity(identity))
	}
	return c.JSON(http.StatusOK, response)
}
