package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/service"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
	"github.com/dassimern/kosher-directory-api/pkg/response"
)

type moderationService interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*models.Restaurant, error)
	SetStatus(ctx context.Context, id, status string, cred service.Credential) error
	EditFields(ctx context.Context, id string, req service.EditRequest, cred service.Credential) error
	Delete(ctx context.Context, id string, cred service.Credential) error
}

type listingService interface {
	List(ctx context.Context, req service.ListRequest) ([]models.Restaurant, error)
}

type exportService interface {
	Export(ctx context.Context, cred service.Credential, format string) (*service.ExportResult, error)
}

// RestaurantHandler exposes the directory endpoints.
type RestaurantHandler struct {
	moderation moderationService
	listing    listingService
	exporter   exportService
	auth       tokenValidator
}

// NewRestaurantHandler constructs the handler. exporter may be nil when the
// export feature is disabled.
func NewRestaurantHandler(moderation moderationService, listing listingService, exporter exportService, auth tokenValidator) *RestaurantHandler {
	return &RestaurantHandler{moderation: moderation, listing: listing, exporter: exporter, auth: auth}
}

// List godoc
// @Summary List restaurants
// @Description Public view returns approved entries; a moderator credential returns everything.
// @Tags Restaurants
// @Produce json
// @Param password query string false "Moderator password"
// @Param q query string false "Search name, city or kashrut"
// @Success 200 {object} response.Envelope
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c *gin.Context) {
	cred, err := credentialFrom(c, h.auth, "")
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.listing.List(c.Request.Context(), service.ListRequest{
		Credential: cred,
		Query:      c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Submit godoc
// @Summary Submit a restaurant
// @Description Adds a pending entry awaiting moderation.
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Router /restaurants [post]
func (h *RestaurantHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if _, err := h.moderation.Submit(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Restaurant submitted for approval")
}

type setStatusRequest struct {
	Status   string `json:"status"`
	Password string `json:"password"`
}

// SetStatus godoc
// @Summary Approve or reject a restaurant
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param payload body setStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /restaurants/{id}/status [post]
func (h *RestaurantHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cred, err := credentialFrom(c, h.auth, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.moderation.SetStatus(c.Request.Context(), c.Param("id"), req.Status, cred); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Status updated successfully")
}

type editRequest struct {
	service.EditRequest
	Password string `json:"password"`
}

// Edit godoc
// @Summary Edit a restaurant
// @Description Updates name, city, website and kashrut. Id, status and dateAdded are immutable.
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param payload body editRequest true "Edit payload"
// @Success 200 {object} response.Envelope
// @Router /restaurants/{id} [put]
func (h *RestaurantHandler) Edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cred, err := credentialFrom(c, h.auth, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.moderation.EditFields(c.Request.Context(), c.Param("id"), req.EditRequest, cred); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Restaurant updated successfully")
}

type deleteRequest struct {
	Password string `json:"password"`
}

// Delete godoc
// @Summary Delete a restaurant
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Envelope
// @Router /restaurants/{id} [delete]
func (h *RestaurantHandler) Delete(c *gin.Context) {
	var req deleteRequest
	_ = c.ShouldBindJSON(&req) // body is optional for deletes
	cred, err := credentialFrom(c, h.auth, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.moderation.Delete(c.Request.Context(), c.Param("id"), cred); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Restaurant deleted successfully")
}

// Export godoc
// @Summary Download the directory as CSV or PDF
// @Tags Restaurants
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Param password query string false "Moderator password"
// @Success 200
// @Router /restaurants/export [get]
func (h *RestaurantHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}
	cred, err := credentialFrom(c, h.auth, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), cred, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
