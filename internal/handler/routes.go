package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/middleware"
)

// Handlers groups every resource handler mounted under the API prefix.
type Handlers struct {
	Topics     *TopicHandler
	Lessons    *LessonHandler
	Attendance *AttendanceHandler
	Countries  *CountryHandler
	Documents  *DocumentHandler
	Users      *UserHandler
	Metrics    *MetricsHandler
}

// AuditFunc builds the request audit middleware for a resource.
type AuditFunc func(resource string) gin.HandlerFunc

// RegisterRoutes mounts the API. Every route is gated by the operation it performs.
// Delegation and document mutations are audited when audit is non-nil.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, audit AuditFunc) {
	auth := middleware.Authorize
	audited := func(g *gin.RouterGroup, resource string) {
		if audit != nil {
			g.Use(audit(resource))
		}
	}

	topics := api.Group("/topics")
	topics.GET("", auth(authz.TopicGetAll), h.Topics.List)
	topics.GET("/by-title", auth(authz.TopicGetByName), h.Topics.GetByTitle)
	topics.GET("/:id", auth(authz.TopicGetByID), h.Topics.Get)
	topics.POST("", auth(authz.TopicCreate), h.Topics.Create)
	topics.PUT("/:id", auth(authz.TopicEdit), h.Topics.Update)
	topics.DELETE("/:id", auth(authz.TopicDelete), h.Topics.Delete)
	topics.GET("/:id/countries", auth(authz.CountryGetByTopic), h.Countries.ListByTopic)
	topics.GET("/:id/countries/mine", auth(authz.CountryGetUserCountry), h.Countries.Mine)
	topics.GET("/:id/documents", auth(authz.DocumentGetByTopic), h.Documents.ListByTopic)

	lessons := api.Group("/lessons")
	lessons.GET("", auth(authz.LessonGetAll), h.Lessons.List)
	lessons.GET("/:id", auth(authz.LessonGetByID), h.Lessons.Get)
	lessons.POST("", auth(authz.LessonCreate), h.Lessons.Create)
	lessons.PUT("/:id", auth(authz.LessonEdit), h.Lessons.Update)
	lessons.DELETE("/:id", auth(authz.LessonDelete), h.Lessons.Delete)
	lessons.GET("/:id/attendance", auth(authz.AttendanceGet), h.Attendance.Get)
	lessons.PUT("/:id/attendance", auth(authz.AttendanceSetBulk), h.Attendance.SetBulk)
	lessons.PUT("/:id/attendance/:userId", auth(authz.AttendanceSet), h.Attendance.Set)

	report := api.Group("/attendance/report")
	report.GET("", auth(authz.AttendanceReport), h.Attendance.Report)
	report.GET("/export", auth(authz.AttendanceReport), h.Attendance.Export)
	report.POST("/exports", auth(authz.AttendanceReport), h.Attendance.CreateExport)
	report.GET("/exports", auth(authz.ReportDownload), h.Attendance.ListExports)
	report.GET("/exports/:id", auth(authz.ReportDownload), h.Attendance.GetExport)
	api.GET("/exports/:token", auth(authz.ReportDownload), h.Attendance.Download)

	countries := api.Group("/countries")
	audited(countries, "country")
	countries.GET("/:id", auth(authz.CountryGetByID), h.Countries.Get)
	countries.POST("", auth(authz.CountryCreate), h.Countries.Create)
	countries.PUT("/:id", auth(authz.CountryEdit), h.Countries.Update)
	countries.DELETE("/:id", auth(authz.CountryDelete), h.Countries.Delete)
	countries.POST("/:id/join", auth(authz.CountryJoin), h.Countries.Join)
	countries.POST("/:id/leave", auth(authz.CountryLeave), h.Countries.Leave)
	countries.GET("/:id/documents", auth(authz.DocumentGetByCountry), h.Documents.ListByCountry)

	documents := api.Group("/documents")
	audited(documents, "document")
	documents.GET("/:id", auth(authz.DocumentGetByID), h.Documents.Get)
	documents.POST("", auth(authz.DocumentCreate), h.Documents.Create)
	documents.DELETE("/:id", auth(authz.DocumentDelete), h.Documents.Delete)

	users := api.Group("/users")
	users.GET("", auth(authz.UserGetAll), h.Users.List)
	users.PUT("/:id/role", auth(authz.UserUpdateRole), h.Users.UpdateRole)
	users.DELETE("/:id", auth(authz.UserDelete), h.Users.Delete)

	api.GET("/system/metrics", auth(authz.SystemMetrics), h.Metrics.Snapshot)
}
