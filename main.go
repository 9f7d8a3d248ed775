package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"echo-service/internal/api"
	"echo-service/internal/config"
	"echo-service/internal/db"
	"echo-service/internal/handlers"
	"echo-service/internal/logger"
	"echo-service/internal/middleware"
	"echo-service/internal/observability"
	"echo-service/internal/rabbitmq"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

const serviceName = "echo-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	database, err := db.Connect(cfg.DBDSN, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, zlog)
	defer publisher.Close()

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment, zlog)

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(context.Background(), serviceName, cfg.TracingEndpoint, cfg.Environment)
		if err != nil {
			zlog.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					zlog.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	userRepo := repositories.NewUserRepo(database)
	sessionRepo := repositories.NewSessionRepo(database)
	workspaceRepo := repositories.NewWorkspaceRepo(database)
	memberRepo := repositories.NewMemberRepo(database)
	channelRepo := repositories.NewChannelRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)
	ticketRepo := repositories.NewTicketRepo(database)

	workspaceHandler := handlers.NewWorkspaceHandler(workspaceRepo, memberRepo, audit)
	memberHandler := handlers.NewMemberHandler(memberRepo, userRepo, audit)
	channelHandler := handlers.NewChannelHandler(channelRepo, memberRepo, audit)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, memberRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, memberRepo, userRepo, reactionRepo, audit)
	reactionHandler := handlers.NewReactionHandler(reactionRepo, messageRepo, memberRepo, audit)
	ticketHandler := handlers.NewTicketHandler(ticketRepo, audit)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(zlog))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			api.Write(c, http.StatusServiceUnavailable, "Database unreachable", nil)
			return
		}
		api.Write(c, http.StatusOK, "OK", nil)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.Auth(sessionRepo)

	workspaces := router.Group("/api/workspaces", authRequired)
	workspaces.POST("/create-workspace", workspaceHandler.Create)
	workspaces.POST("/join", workspaceHandler.Join)
	workspaces.PATCH("/update-workspace", workspaceHandler.Update)
	workspaces.DELETE("/remove-workspace", workspaceHandler.Remove)
	workspaces.POST("/new-join-code", workspaceHandler.NewJoinCode)
	workspaces.POST("/get-info-id", workspaceHandler.GetInfo)
	workspaces.POST("/get-by-id", workspaceHandler.GetByID)
	workspaces.POST("/get-all", workspaceHandler.GetAll)

	members := router.Group("/api/members", authRequired)
	members.POST("/current-member", memberHandler.Current)
	members.POST("/get-by-id", memberHandler.GetByID)
	members.POST("/get-all", memberHandler.GetAll)
	members.POST("/remove-member", memberHandler.Remove)
	members.POST("/update-member", memberHandler.UpdateRole)

	channels := router.Group("/api/channels", authRequired)
	channels.POST("/create-channel", channelHandler.Create)
	channels.POST("/get-all", channelHandler.GetAll)
	channels.POST("/get-by-id", channelHandler.GetByID)
	channels.POST("/update-channel", channelHandler.Update)
	channels.POST("/remove-channel", channelHandler.Remove)

	conversations := router.Group("/api/conversations", authRequired)
	conversations.POST("/create-or-get-conversation", conversationHandler.CreateOrGet)

	messages := router.Group("/api/messages")
	messages.POST("/create-message", authRequired, messageHandler.Create)
	messages.POST("/get-by-id", authRequired, messageHandler.GetByID)
	// get-all intentionally has no auth gate; the client relies on it
	// being reachable before the session refresh completes.
	messages.POST("/get-all", middleware.OptionalAuth(sessionRepo), messageHandler.GetAll)
	messages.POST("/update-message", authRequired, messageHandler.Update)
	messages.POST("/remove-message", authRequired, messageHandler.Remove)

	reactions := router.Group("/api/reactions", authRequired)
	reactions.POST("/toggle", reactionHandler.Toggle)

	tickets := router.Group("/api/tickets", authRequired)
	tickets.POST("/submit-ticket", ticketHandler.Submit)
	tickets.POST("/get-tickets", ticketHandler.GetTickets)

	handlers.RegisterDebugRoutes(router, audit, sessionRepo, userRepo, cfg.DebugEndpoints)

	zlog.Info("listening", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
