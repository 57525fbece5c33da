// File: internal/property/handler.go
package property

import (
	"errors"
	"strconv"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for property handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new property handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for property operations. Listing browsing
// is public; publishing and management require agent or admin roles.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, agentMW, adminMW gin.HandlerFunc) {
	propGroup := router.Group("/properties")
	{
		propGroup.GET("/advertisements", h.listAdvertised)
		propGroup.GET("/advertisements/latest", h.listLatestAdvertised)
		propGroup.GET("/search", h.searchByLocation)
		propGroup.GET("/public", h.listPublic)

		authGroup := propGroup.Group("")
		authGroup.Use(authMW)
		{
			authGroup.GET("", h.listPublic)
			authGroup.GET("/:id", h.getByID)

			agentGroup := authGroup.Group("")
			agentGroup.Use(agentMW)
			{
				agentGroup.POST("", h.create)
				agentGroup.GET("/agent/my-properties", h.listMine)
				agentGroup.PUT("/:id", h.update)
				agentGroup.PATCH("/:id", h.update)
				agentGroup.DELETE("/:id", h.delete)
			}

			adminGroup := authGroup.Group("")
			adminGroup.Use(adminMW)
			{
				adminGroup.PATCH("/verify/:id", h.verify)
				adminGroup.GET("/admin/all", h.listAll)
				adminGroup.GET("/admin/advertise", h.listAdvertisedAdmin)
				adminGroup.PATCH("/admin/advertise/:id", h.advertise)
			}
		}
	}
}

func (h *Handler) create(c *gin.Context) {
	agent := middleware.GetIdentityFromContext(c)
	if agent == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create property: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	prop, err := h.service.Create(c.Request.Context(), agent, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Property added successfully.", prop)
}

func (h *Handler) listPublic(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters."))
		return
	}
	props, err := h.service.ListPublic(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Properties retrieved successfully.", props)
}

func (h *Handler) getByID(c *gin.Context) {
	prop, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property retrieved successfully.", prop)
}

func (h *Handler) listAdvertised(c *gin.Context) {
	props, err := h.service.ListAdvertisedPublic(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Advertised properties retrieved successfully.", props)
}

func (h *Handler) listLatestAdvertised(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "4"), 10, 64)
	props, err := h.service.ListLatestAdvertised(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Latest advertised properties retrieved successfully.", props)
}

func (h *Handler) searchByLocation(c *gin.Context) {
	props, err := h.service.SearchByLocation(c.Request.Context(), c.Query("location"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Properties retrieved successfully.", props)
}

func (h *Handler) listMine(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	props, err := h.service.ListMine(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Agent properties retrieved successfully.", gin.H{
		"properties": props,
		"total":      len(props),
	})
}

func (h *Handler) update(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update property: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	prop, err := h.service.Update(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property updated successfully.", prop)
}

func (h *Handler) delete(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), uid, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property deleted successfully.", gin.H{"propertyId": id})
}

func (h *Handler) verify(c *gin.Context) {
	var req VerifyPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid verification status."))
		return
	}
	prop, err := h.service.Verify(c.Request.Context(), c.Param("id"), VerificationStatus(req.Status))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property verification updated successfully.", prop)
}

func (h *Handler) listAll(c *gin.Context) {
	props, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Properties retrieved successfully.", props)
}

func (h *Handler) listAdvertisedAdmin(c *gin.Context) {
	props, err := h.service.ListAdvertisedAdmin(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Advertised properties retrieved successfully.", props)
}

func (h *Handler) advertise(c *gin.Context) {
	var req AdvertisePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdvertised == nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid advertise status."))
		return
	}
	prop, err := h.service.Advertise(c.Request.Context(), c.Param("id"), *req.IsAdvertised)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property advertise status updated successfully.", prop)
}
