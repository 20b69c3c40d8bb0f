package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/api"
	"github.com/psds-microservice/admin-console/internal/handler"
	"github.com/psds-microservice/admin-console/internal/metrics"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/psds-microservice/helpy/paths"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	Sessions handler.SessionService
	KYC      *handler.ReviewHandler[model.KYCApplication]
	Tickets  *handler.ReviewHandler[model.ContactInquiry]
	Content  *handler.ContentHandler
	Ready    func() bool
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())
	r.GET(paths.PathHealth, handler.Health)
	r.GET(paths.PathReady, handler.Readiness(d.Ready))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(paths.PathSwagger+"/openapi.json"))(c)
	})

	sessions := handler.NewSessionHandler(d.Sessions)
	v1 := r.Group("/api/v1")
	v1.POST("/session/login", sessions.Login)

	authed := v1.Group("", handler.Authenticate(d.Sessions))
	{
		authed.GET("/session", sessions.Current)
		authed.POST("/session/logout", sessions.Logout)
	}

	kyc := authed.Group("/kyc", handler.Require(session.ModuleKYC, session.LevelView))
	{
		kyc.GET("", d.KYC.List)
		kyc.GET("/state", d.KYC.State)
		kyc.GET("/stats", d.KYC.Stats)
		kyc.PATCH("/filters", d.KYC.SetFilter)
		kyc.POST("/back", d.KYC.Back)
		kyc.POST("/actions", handler.Require(session.ModuleKYC, session.LevelFull), d.KYC.Action)
		kyc.POST("/bulk", handler.Require(session.ModuleKYC, session.LevelFull), d.KYC.Bulk)
		kyc.GET("/:id", d.KYC.Select)
	}

	tickets := authed.Group("/tickets", handler.Require(session.ModuleTickets, session.LevelView))
	{
		tickets.GET("", d.Tickets.List)
		tickets.GET("/state", d.Tickets.State)
		tickets.GET("/stats", d.Tickets.Stats)
		tickets.PATCH("/filters", d.Tickets.SetFilter)
		tickets.POST("/back", d.Tickets.Back)
		tickets.POST("/actions", handler.Require(session.ModuleTickets, session.LevelFull), d.Tickets.Action)
		tickets.GET("/:id", d.Tickets.Select)
	}

	content(authed, d.Content)
	return r
}

func content(g *gin.RouterGroup, h *handler.ContentHandler) {
	view := func(module string) gin.HandlerFunc { return handler.Require(module, session.LevelView) }
	full := func(module string) gin.HandlerFunc { return handler.Require(module, session.LevelFull) }

	blogs := g.Group("/blogs", view(session.ModuleBlogs))
	{
		blogs.GET("", h.ListBlogs)
		blogs.GET("/:id", h.GetBlog)
		blogs.POST("", full(session.ModuleBlogs), h.CreateBlog)
		blogs.PUT("/:id", full(session.ModuleBlogs), h.UpdateBlog)
		blogs.DELETE("/:id", full(session.ModuleBlogs), h.DeleteBlog)
	}
	cats := g.Group("/blog-categories", view(session.ModuleBlogs))
	{
		cats.GET("", h.ListCategories)
		cats.POST("", full(session.ModuleBlogs), h.CreateCategory)
		cats.PUT("/:id", full(session.ModuleBlogs), h.UpdateCategory)
		cats.DELETE("/:id", full(session.ModuleBlogs), h.DeleteCategory)
	}
	products := g.Group("/products", view(session.ModuleProducts))
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PATCH("/:id/status", full(session.ModuleProducts), h.UpdateProductStatus)
		products.POST("/:id/approve", full(session.ModuleProducts), h.ApproveProduct)
		products.POST("/:id/reject", full(session.ModuleProducts), h.RejectProduct)
	}
	staff := g.Group("/staff", view(session.ModuleStaff))
	{
		staff.GET("", h.ListStaff)
		staff.GET("/:id", h.GetStaff)
		staff.POST("", full(session.ModuleStaff), h.CreateStaff)
		staff.PUT("/:id", full(session.ModuleStaff), h.UpdateStaff)
		staff.DELETE("/:id", full(session.ModuleStaff), h.DeleteStaff)
	}
	logs := g.Group("/activity-logs", view(session.ModuleActivityLogs))
	{
		logs.GET("", h.ActivityLogs)
		logs.GET("/dates", h.ActivityLogDates)
	}
	g.POST("/media", full(session.ModuleBlogs), h.UploadMedia)
}
