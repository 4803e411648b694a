package api

import (
	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/auth"
	"jobportal/internal/board"
	"jobportal/internal/database"
)

// Dependencies are the services the pages are served from.
type Dependencies struct {
	Board        *board.Service
	Auth         *auth.AuthService
	Sessions     *auth.SessionStore
	Throttle     *auth.LoginThrottle
	CookieDomain string
}

// RegisterRoutes mounts the job board pages.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Board, deps.Auth, deps.Sessions, deps.Throttle, deps.CookieDomain)
	jobHandler := NewJobHandler(deps.Board)
	applicationHandler := NewApplicationHandler(deps.Board)
	profileHandler := NewProfileHandler(deps.Board)

	site := router.Group("/")
	site.Use(middleware.SessionMiddleware(deps.Auth, deps.Sessions, deps.Board))
	{
		site.GET("/job/:id/", jobHandler.Detail)

		site.GET("/register/", authHandler.RegisterPage(database.RoleSeeker))
		site.POST("/register/", authHandler.Register(database.RoleSeeker))
		site.GET("/employer/register/", authHandler.RegisterPage(database.RoleEmployer))
		site.POST("/employer/register/", authHandler.Register(database.RoleEmployer))

		site.GET("/login/", authHandler.LoginPage)
		site.POST("/login/", authHandler.Login)
		site.GET("/logout/", authHandler.Logout)
		site.POST("/logout/", authHandler.Logout)
	}

	member := site.Group("/")
	member.Use(middleware.RequireLogin())
	{
		member.GET("/", jobHandler.List)

		member.GET("/job/:id/apply/", applicationHandler.ApplyPage)
		member.POST("/job/:id/apply/", applicationHandler.Apply)

		member.GET("/seeker/dashboard/", applicationHandler.Dashboard)
		member.GET("/applications/:id/delete/", applicationHandler.DeletePage)
		member.POST("/applications/:id/delete/", applicationHandler.Delete)
		member.GET("/applications/:id/resume/", applicationHandler.Resume)
		member.POST("/applications/:id/status/", applicationHandler.SetStatus)

		member.GET("/employer/dashboard/", jobHandler.Dashboard)
		member.GET("/job/post/", jobHandler.PostPage)
		member.POST("/job/post/", jobHandler.Post)
		member.GET("/job/:id/applications/", jobHandler.Applications)
		member.GET("/job/edit/:id/", jobHandler.EditPage)
		member.POST("/job/edit/:id/", jobHandler.Edit)
		member.GET("/job/delete/:id/", jobHandler.DeletePage)
		member.POST("/job/delete/:id/", jobHandler.Delete)

		member.GET("/profile/", profileHandler.Show)
		member.GET("/profile/edit/", profileHandler.EditPage)
		member.POST("/profile/edit/", profileHandler.Edit)
		member.GET("/profile/resume/", profileHandler.Resume)
	}
}
