package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/middleware"
	"github.com/sahaya-relief/camp-api/internal/models"
)

// Handlers groups every API handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Camps     *CampHandler
	Disasters *DisasterHandler
	Requests  *CampRequestHandler
	Donations *DonationHandler
	Inventory *InventoryHandler
	Inmates   *InmateHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the API under api. donorLimit throttles the public
// donation endpoints and may be nil.
func RegisterRoutes(api gin.IRouter, h Handlers, tokens middleware.TokenValidator, donorLimit gin.HandlerFunc) {
	authed := middleware.JWT(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCampManager)
	campScoped := middleware.RequireCampAccess("campId")

	donor := []gin.HandlerFunc{}
	if donorLimit != nil {
		donor = append(donor, donorLimit)
	}

	api.POST("/admin/login", h.Auth.AdminLogin)
	api.POST("/camp-manager/login", h.Auth.CampManagerLogin)

	admin := api.Group("/admin", authed, adminOnly)
	admin.POST("/create-camp", h.Camps.Create)
	admin.GET("/camps", h.Camps.List)
	admin.DELETE("/camp/:campId", h.Camps.Delete)
	admin.POST("/register-disaster", h.Disasters.Register)
	admin.GET("/disasters", h.Disasters.List)
	admin.GET("/disaster/:disasterId", h.Disasters.Get)
	admin.PUT("/disaster/:disasterId", h.Disasters.Update)
	admin.DELETE("/disaster/:disasterId", h.Disasters.Delete)

	api.GET("/camp-manager/profile/:campId", authed, staff, campScoped, h.Camps.Profile)

	api.GET("/camp/requests", h.Requests.ListOpen)
	api.POST("/donor/donate-item", append(donor, h.Donations.DonateItem)...)
	api.POST("/donor/donate-money", append(donor, h.Donations.DonateMoney)...)
	api.GET("/inventory/:campId", h.Inventory.Summary)

	requests := api.Group("/camp-request", authed, staff)
	requests.POST("", h.Requests.Create)
	requests.GET("/:campId", campScoped, h.Requests.ListByCamp)
	requests.GET("/donations/:campId", campScoped, h.Donations.History)
	requests.PUT("/donations/:id/receive", h.Donations.Receive)
	requests.PUT("/donations/:id/not-receive", h.Donations.NotReceive)

	inventory := api.Group("/inventory", authed, staff)
	inventory.PUT("/update", h.Inventory.Update)
	inventory.GET("/:campId/export", campScoped, h.Inventory.Export)

	inmates := api.Group("/inmates", authed, staff)
	inmates.POST("/register", h.Inmates.Register)
	inmates.GET("/:campId", campScoped, h.Inmates.List)
	inmates.GET("/:campId/stats", campScoped, h.Inmates.Stats)
	inmates.PUT("/:inmateId", h.Inmates.Update)
	inmates.DELETE("/:inmateId", h.Inmates.Delete)

	api.GET("/dashboard/summary", authed, adminOnly, h.Dashboard.Summary)
}
