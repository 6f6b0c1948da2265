package api

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/htmf/hackathon-api/docs"
	v1 "github.com/htmf/hackathon-api/internal/api/handler/v1"
	"github.com/htmf/hackathon-api/internal/api/middleware"
	"github.com/htmf/hackathon-api/internal/config"
	"github.com/htmf/hackathon-api/internal/metrics"
	"github.com/htmf/hackathon-api/internal/repository"
	"github.com/htmf/hackathon-api/internal/repository/dao"
	"github.com/htmf/hackathon-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Hub    *v1.NotificationHub
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	hackathon    *v1.HackathonHandler
	team         *v1.TeamHandler
	notification *v1.NotificationHandler
}

// NewServer wires every handler to db. The notification hub runs until ctx
// is cancelled.
func NewServer(ctx context.Context, conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    v1.NewNotificationHub(conf.API.AllowedCORSDomains),
	}
	go s.Hub.Run(ctx)

	s.MountMiddlewares()

	userSvc := s.initUserService(db)
	notificationSvc := s.initNotificationService(db)
	teamSvc := s.initTeamService(db, notificationSvc)

	s.MountHandlers(handlers{
		auth:         s.initAuthHandler(db),
		user:         v1.NewUserHandler(userSvc),
		hackathon:    s.initHackathonHandler(db),
		team:         v1.NewTeamHandler(teamSvc, notificationSvc, userSvc),
		notification: v1.NewNotificationHandler(notificationSvc, teamSvc, userSvc),
	})

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, s.Config.API.AllowedEmailDomain, s.Config.API.AdminEmails)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initHackathonHandler(db *gorm.DB) *v1.HackathonHandler {
	hackathonDAO := dao.NewHackathonDAO(db)
	repo := repository.NewHackathonRepository(hackathonDAO)
	svc := service.NewHackathonService(repo)
	handler := v1.NewHackathonHandler(svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initNotificationService(db *gorm.DB) *service.NotificationService {
	uow := dao.NewUnitOfWork(db)
	repo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))
	interests := repository.NewInterestRepository(dao.NewInterestDAO(db), uow)

	return service.NewNotificationService(repo, interests, s.Hub)
}

func (s *Server) initTeamService(db *gorm.DB, notifier service.TeamNotifier) *service.TeamService {
	uow := dao.NewUnitOfWork(db)
	repo := repository.NewTeamRepository(dao.NewTeamDAO(db), uow)
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	hackathonRepo := repository.NewHackathonRepository(dao.NewHackathonDAO(db))

	return service.NewTeamService(repo, userRepo, hackathonRepo, notifier, s.Config.Teams.CodeAttempts)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics" && c.Request.Method == "GET"
		},
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", requestid.Get(c))}
		},
	}))
	s.Router.Use(ginzap.RecoveryWithZap(zap.L(), true))
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(metrics.GinMiddleware)
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.GET("/hackathons", h.hackathon.HandleListHackathons)
		public.GET("/hackathons/:hackathonID", h.hackathon.HandleGetHackathon)
		public.POST("/contact", authenticator.OptionalJWT(), h.notification.HandleContact)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.GET("/users/me", h.user.HandleGetMe)
		users.PUT("/users/me", h.user.HandleUpdateMe)
		users.GET("/users/:userID", h.user.HandleGetUser)
	}

	hackathons := s.Router.Group(basePath+"/hackathons", authenticator.VerifyJWT())
	{
		hackathons.POST("", h.hackathon.HandleCreateHackathon)
		hackathons.GET("/:hackathonID/participation", h.user.HandleGetParticipation)
		hackathons.GET("/:hackathonID/teams", h.team.HandleListTeams)
		hackathons.POST("/:hackathonID/teams", h.team.HandleCreateTeam)
		hackathons.POST("/:hackathonID/teams/join", h.team.HandleJoinByCode)
		hackathons.POST("/:hackathonID/interest", h.team.HandleExpressInterest)
		hackathons.GET("/:hackathonID/interested", h.team.HandleFetchInterested)
		hackathons.GET("/:hackathonID/invites", h.team.HandleFetchInvites)
		hackathons.POST("/:hackathonID/invites", h.team.HandleSendInvite)
		hackathons.POST("/:hackathonID/invites/:teamID/respond", h.team.HandleRespondInvite)
	}

	teams := s.Router.Group(basePath+"/teams", authenticator.VerifyJWT())
	{
		teams.GET("/:teamID", h.team.HandleGetTeam)
		teams.GET("/:teamID/members", h.team.HandleGetMembers)
		teams.POST("/:teamID/join", h.team.HandleJoinTeam)
		teams.POST("/:teamID/leave", h.team.HandleLeaveTeam)
		teams.DELETE("/:teamID", h.team.HandleDeleteTeam)
		teams.POST("/:teamID/join-requests", h.team.HandleSendJoinRequest)
	}

	notifications := s.Router.Group(basePath+"/notifications", authenticator.VerifyJWT())
	{
		notifications.GET("", h.notification.HandleListNotifications)
		notifications.GET("/stream", s.Hub.HandleStream)
		notifications.PATCH("/:notificationID/status", h.notification.HandleUpdateStatus)
		notifications.POST("/:notificationID/approve", h.notification.HandleApprove)
		notifications.POST("/:notificationID/decline", h.notification.HandleDecline)
		notifications.POST("/:notificationID/read", h.notification.HandleMarkRead)
		notifications.POST("/:notificationID/reply", h.notification.HandleReply)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", metrics.Handler())

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Hackathon teams API"
	docs.SwaggerInfo.Description = "Team formation and notifications for hackathon participants."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
