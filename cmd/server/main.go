package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	attendanceapp "github.com/tutorhub/backend/internal/application/attendance"
	assessmentapp "github.com/tutorhub/backend/internal/application/assessment"
	billingapp "github.com/tutorhub/backend/internal/application/billing"
	eventapp "github.com/tutorhub/backend/internal/application/event"
	homeworkapp "github.com/tutorhub/backend/internal/application/homework"
	identityapp "github.com/tutorhub/backend/internal/application/identity"
	maintenanceapp "github.com/tutorhub/backend/internal/application/maintenance"
	notificationapp "github.com/tutorhub/backend/internal/application/notification"
	rosterapp "github.com/tutorhub/backend/internal/application/roster"
	attendancedomain "github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
	notificationdomain "github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/infrastructure/auth"
	"github.com/tutorhub/backend/internal/infrastructure/cache"
	"github.com/tutorhub/backend/internal/infrastructure/config"
	"github.com/tutorhub/backend/internal/infrastructure/event"
	"github.com/tutorhub/backend/internal/infrastructure/logger"
	"github.com/tutorhub/backend/internal/infrastructure/persistence"
	"github.com/tutorhub/backend/internal/infrastructure/report"
	"github.com/tutorhub/backend/internal/infrastructure/scheduler"
	"github.com/tutorhub/backend/internal/infrastructure/sms"
	"github.com/tutorhub/backend/internal/infrastructure/storage"
	"github.com/tutorhub/backend/internal/infrastructure/telemetry"
	"github.com/tutorhub/backend/internal/interfaces/http/handler"
	"github.com/tutorhub/backend/internal/interfaces/http/middleware"
	"github.com/tutorhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "github.com/tutorhub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			TutorHub Backend API
//	@version		1.0
//	@description	Tutoring center management API - kiosk attendance, guardian notifications, rosters and academics

//	@contact.name	API Support
//	@contact.url	https://github.com/tutorhub/backend
//	@contact.email	support@tutorhub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting TutorHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	log = telemetry.BridgeLogger(log, loggerProvider, cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddr,
		ApplicationName: cfg.Telemetry.ServiceName,
		BasicAuthUser:   cfg.Telemetry.ProfilingAuthUser,
		BasicAuthPass:   cfg.Telemetry.ProfilingAuthPass,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	teacherRepo := persistence.NewGormTeacherRepository(db.DB)
	classRepo := persistence.NewGormClassRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	watermarkRepo := persistence.NewGormPromotionWatermarkRepository(db.DB)
	codeRepo := persistence.NewGormCodeRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	workRecordRepo := persistence.NewGormWorkRecordRepository(db.DB)
	staffSettingsRepo := persistence.NewGormStaffSettingsRepository(db.DB)
	notificationLogRepo := persistence.NewGormNotificationLogRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	gatewaySettingsRepo := persistence.NewGormGatewaySettingsRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)
	assessmentRepo := persistence.NewGormAssessmentRepository(db.DB)
	resultRepo := persistence.NewGormResultRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	centerRepo := persistence.NewGormCenterRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Publisher handed to application services. Events go to the outbox table;
	// the processor delivers them to the bus after the request completes.
	publisher := event.NewOutboxEnqueuer(db.DB, eventSerializer)

	// Code resolution: student codes, then staff codes, then the legacy
	// staff phone fallback backed by the teacher directory
	resolver := attendancedomain.NewResolver(codeRepo, teacherRepo)

	// SMS gateway stack
	var gateway notificationdomain.Gateway
	if cfg.SMS.Enabled {
		gateway = sms.NewHTTPGateway(cfg.SMS, log)
		log.Info("SMS gateway enabled", zap.String("base_url", cfg.SMS.BaseURL))
	} else {
		gateway = sms.NewConsoleGateway(log)
		log.Info("SMS disabled, messages will be logged only")
	}

	secretBox, err := sms.NewSecretBox([]byte(cfg.SMS.EncryptionKey))
	if err != nil {
		log.Fatal("Invalid SMS encryption key", zap.Error(err))
	}

	fallbackCreds := notificationdomain.Credentials{
		APIKey:       cfg.SMS.APIKey,
		APISecret:    cfg.SMS.APISecret,
		SenderNumber: cfg.SMS.SenderNumber,
	}
	credSource := sms.NewStoreCredentialSource(gatewaySettingsRepo, secretBox, fallbackCreds)
	credCache := cache.NewCredentialCache(credSource, cfg.SMS.CredentialTTL, cfg.SMS.CredentialCacheSize)

	// Token blacklist for logout, Redis-backed when available
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err == nil {
		blacklist = redisBlacklist
		log.Info("Using Redis token blacklist")
	} else {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Object storage for homework handouts and submissions
	var objectStorage homeworkapp.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("No object storage configured, attachment URLs are stubs")
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, centerRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	centerService := identityapp.NewCenterService(centerRepo, userRepo, roleRepo, publisher, log)

	studentService := rosterapp.NewStudentService(studentRepo, enrollmentRepo, log)
	teacherService := rosterapp.NewTeacherService(teacherRepo, log)
	classService := rosterapp.NewClassService(classRepo, teacherRepo, studentRepo, enrollmentRepo, log)

	attendanceService := attendanceapp.NewAttendanceService(recordRepo, studentRepo, classRepo, centerRepo, resolver, publisher, log)
	codeService := attendanceapp.NewCodeService(codeRepo, studentRepo, teacherRepo, log)
	staffService := attendanceapp.NewStaffAttendanceService(workRecordRepo, staffSettingsRepo, teacherRepo, centerRepo, publisher, log)

	homeworkService := homeworkapp.NewService(assignmentRepo, submissionRepo, classRepo, objectStorage, log)
	assessmentService := assessmentapp.NewService(assessmentRepo, resultRepo, studentRepo, report.NewTemplateWriter(log), log)
	billingService := billingapp.NewService(invoiceRepo, studentRepo, log)

	notificationAdminService := notificationapp.NewAdminService(notificationLogRepo, templateRepo, gatewaySettingsRepo, secretBox, credCache, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)
	maintenanceService := maintenanceapp.NewService(workRecordRepo, recordRepo, notificationLogRepo, studentRepo, centerRepo, watermarkRepo, log)

	// Initialize event bus and the notification dispatcher
	eventBus := event.NewInMemoryEventBus(log)

	dispatcher := notificationapp.NewDispatcher(
		recordRepo, staffSettingsRepo, studentRepo, teacherRepo, centerRepo,
		templateRepo, notificationLogRepo, gateway, credCache, log,
	)

	// Wrap the dispatcher so redelivered outbox entries never send twice
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	eventBus.Subscribe(event.NewIdempotentHandler(dispatcher, idempotencyStore, log))

	log.Info("Notification dispatcher registered",
		zap.Strings("event_types", dispatcher.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor: reads pending entries and publishes them to the bus
	outboxCfg := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		outboxCfg.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		outboxCfg.PollInterval = cfg.Event.PollInterval
	}
	outboxCfg.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		outboxCfg.CleanupRetention = cfg.Event.CleanupRetention
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxCfg, log)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxCfg.BatchSize),
			zap.Duration("poll_interval", outboxCfg.PollInterval),
		)
	}

	// Nightly maintenance: missing-checkout flagging, retention pruning and
	// the yearly grade promotion
	cronCfg := scheduler.DefaultMaintenanceCronSchedulerConfig()
	cronCfg.Enabled = cfg.Scheduler.Enabled
	if hour, minute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule); err == nil {
		cronCfg.CronHour = hour
		cronCfg.CronMinute = minute
		cronCfg.DailyCronSchedule = cfg.Scheduler.DailyCronSchedule
	}
	if cfg.Scheduler.MaxConcurrentJobs > 0 {
		cronCfg.MaxConcurrentJobs = cfg.Scheduler.MaxConcurrentJobs
	}
	if cfg.Scheduler.JobTimeout > 0 {
		cronCfg.JobTimeout = cfg.Scheduler.JobTimeout
	}
	if cfg.Scheduler.RetryAttempts > 0 {
		cronCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
	}
	if cfg.Scheduler.RetryDelay > 0 {
		cronCfg.RetryDelay = cfg.Scheduler.RetryDelay
	}
	maintenanceCron := scheduler.NewMaintenanceCronScheduler(
		cronCfg,
		maintenanceapp.NewExecutor(maintenanceService),
		scheduler.NewSchedulerJobRepository(db.DB),
		log,
	)
	if cfg.Scheduler.Enabled {
		if err := maintenanceCron.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceCron.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.Int("cron_hour", cronCfg.CronHour),
			zap.Int("cron_minute", cronCfg.CronMinute),
		)
	}

	// Initialize HTTP handlers
	kioskHandler := handler.NewKioskHandler(attendanceService, staffService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, codeService, staffService)
	studentHandler := handler.NewStudentHandler(studentService)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	classHandler := handler.NewClassHandler(classService)
	homeworkHandler := handler.NewHomeworkHandler(homeworkService)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)
	billingHandler := handler.NewBillingHandler(billingService)
	notificationHandler := handler.NewNotificationHandler(notificationAdminService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	centerHandler := handler.NewCenterHandler(centerService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceCron)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation (registers the attendance_code tag)
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, tracing,
	// security headers, CORS, body limit, rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Stricter limit on credential-guessing surface
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRateLimit := middleware.RateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/") {
				authRateLimit(c)
				return
			}
			c.Next()
		})
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerGroup := engine.Group("/swagger")
		if len(cfg.Swagger.AllowedIPs) > 0 {
			allowed := make(map[string]struct{}, len(cfg.Swagger.AllowedIPs))
			for _, ip := range cfg.Swagger.AllowedIPs {
				allowed[ip] = struct{}{}
			}
			swaggerGroup.Use(func(c *gin.Context) {
				if _, ok := allowed[c.ClientIP()]; !ok {
					c.AbortWithStatus(http.StatusForbidden)
					return
				}
				c.Next()
			})
		}
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Kiosk endpoints: pads authenticate with the X-Center-ID header, not a
	// user JWT, so the group sits outside the authenticated API router
	kioskGroup := engine.Group("/api/v1/kiosk")
	kioskGroup.Use(middleware.CenterMiddlewareWithConfig(middleware.CenterMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    false,
		Required:      true,
		Logger:        log,
	}))
	kioskGroup.POST("/validate", kioskHandler.Validate)
	kioskGroup.POST("/check-in", kioskHandler.CheckIn)
	kioskGroup.POST("/check-out", kioskHandler.CheckOut)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for everything except login, refresh and the kiosk
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/ping",
		},
		SkipPathPrefixes: []string{
			"/api/v1/kiosk",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication (login and refresh are public; the rest need a token)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Roster domain (students, teachers, classes)
	rosterRoutes := router.NewDomainGroup("roster", "")

	rosterRoutes.POST("/students", middleware.RequirePermission(identity.PermissionStudentsWrite), studentHandler.Create)
	rosterRoutes.GET("/students", middleware.RequirePermission(identity.PermissionStudentsRead), studentHandler.List)
	rosterRoutes.GET("/students/:id", middleware.RequirePermission(identity.PermissionStudentsRead), studentHandler.Get)
	rosterRoutes.PUT("/students/:id", middleware.RequirePermission(identity.PermissionStudentsWrite), studentHandler.Update)
	rosterRoutes.POST("/students/:id/withdraw", middleware.RequirePermission(identity.PermissionStudentsWrite), studentHandler.Withdraw)
	rosterRoutes.POST("/students/:id/pause", middleware.RequirePermission(identity.PermissionStudentsWrite), studentHandler.Pause)
	rosterRoutes.POST("/students/:id/reactivate", middleware.RequirePermission(identity.PermissionStudentsWrite), studentHandler.Reactivate)
	rosterRoutes.GET("/students/:id/attendance", middleware.RequirePermission(identity.PermissionAttendanceRead), attendanceHandler.ListStudentRecords)
	rosterRoutes.GET("/students/:id/invoices", middleware.RequirePermission(identity.PermissionBillingManage), billingHandler.ListForStudent)

	rosterRoutes.POST("/teachers", middleware.RequirePermission(identity.PermissionTeachersWrite), teacherHandler.Create)
	rosterRoutes.GET("/teachers", middleware.RequirePermission(identity.PermissionTeachersRead), teacherHandler.List)
	rosterRoutes.GET("/teachers/:id", middleware.RequirePermission(identity.PermissionTeachersRead), teacherHandler.Get)
	rosterRoutes.PUT("/teachers/:id", middleware.RequirePermission(identity.PermissionTeachersWrite), teacherHandler.Update)
	rosterRoutes.POST("/teachers/:id/deactivate", middleware.RequirePermission(identity.PermissionTeachersWrite), teacherHandler.Deactivate)
	rosterRoutes.GET("/teachers/:id/work-records", middleware.RequirePermission(identity.PermissionAttendanceRead), attendanceHandler.ListWorkRecords)
	rosterRoutes.PUT("/teachers/:id/punch-settings", middleware.RequirePermission(identity.PermissionTeachersWrite), attendanceHandler.UpdateStaffSettings)

	rosterRoutes.POST("/classes", middleware.RequirePermission(identity.PermissionClassesWrite), classHandler.Create)
	rosterRoutes.GET("/classes", middleware.RequirePermission(identity.PermissionClassesRead), classHandler.List)
	rosterRoutes.GET("/classes/:id", middleware.RequirePermission(identity.PermissionClassesRead), classHandler.Get)
	rosterRoutes.PUT("/classes/:id", middleware.RequirePermission(identity.PermissionClassesWrite), classHandler.Update)
	rosterRoutes.POST("/classes/:id/deactivate", middleware.RequirePermission(identity.PermissionClassesWrite), classHandler.Deactivate)
	rosterRoutes.POST("/classes/:id/enrollments", middleware.RequirePermission(identity.PermissionClassesWrite), classHandler.Enroll)
	rosterRoutes.DELETE("/classes/:id/enrollments/:student_id", middleware.RequirePermission(identity.PermissionClassesWrite), classHandler.Unenroll)
	rosterRoutes.GET("/classes/:id/roster", middleware.RequirePermission(identity.PermissionClassesRead), classHandler.Roster)

	// Attendance domain (staff-facing records and the code registry)
	attendanceRoutes := router.NewDomainGroup("attendance", "/attendance")
	attendanceRoutes.GET("/records", middleware.RequirePermission(identity.PermissionAttendanceRead), attendanceHandler.ListRecords)
	attendanceRoutes.PUT("/records/status", middleware.RequirePermission(identity.PermissionAttendanceWrite), attendanceHandler.UpdateStatus)
	attendanceRoutes.GET("/records/:id/notifications", middleware.RequirePermission(identity.PermissionNotificationLog), notificationHandler.ListForRecord)
	attendanceRoutes.POST("/codes", middleware.RequirePermission(identity.PermissionCodesManage), attendanceHandler.RegisterCode)
	attendanceRoutes.GET("/codes", middleware.RequirePermission(identity.PermissionCodesManage), attendanceHandler.ListOwnerCodes)
	attendanceRoutes.DELETE("/codes/:id", middleware.RequirePermission(identity.PermissionCodesManage), attendanceHandler.DeactivateCode)
	attendanceRoutes.POST("/codes/backfill", middleware.RequirePermission(identity.PermissionCodesManage), attendanceHandler.BackfillCodes)

	// Homework domain
	homeworkRoutes := router.NewDomainGroup("homework", "/homework")
	homeworkRoutes.Use(middleware.RequirePermission(identity.PermissionHomeworkManage))
	homeworkRoutes.POST("/assignments", homeworkHandler.CreateAssignment)
	homeworkRoutes.GET("/assignments", homeworkHandler.ListAssignments)
	homeworkRoutes.POST("/assignments/:id/handout/upload-url", homeworkHandler.RequestHandoutUpload)
	homeworkRoutes.GET("/assignments/:id/handout/download-url", homeworkHandler.HandoutDownloadURL)
	homeworkRoutes.POST("/assignments/:id/submissions", homeworkHandler.Submit)
	homeworkRoutes.GET("/assignments/:id/submissions", homeworkHandler.ListSubmissions)
	homeworkRoutes.POST("/submissions/:id/review", homeworkHandler.Review)
	homeworkRoutes.POST("/submissions/:id/return", homeworkHandler.Return)

	// Assessment domain
	assessmentRoutes := router.NewDomainGroup("assessment", "/assessments")
	assessmentRoutes.Use(middleware.RequirePermission(identity.PermissionAssessManage))
	assessmentRoutes.POST("", assessmentHandler.Create)
	assessmentRoutes.GET("", assessmentHandler.ListForClass)
	assessmentRoutes.POST("/:id/results", assessmentHandler.RecordResult)
	assessmentRoutes.GET("/:id/results", assessmentHandler.ListResults)
	assessmentRoutes.POST("/results/:id/report", assessmentHandler.GenerateReport)

	// Billing domain
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.Use(middleware.RequirePermission(identity.PermissionBillingManage))
	billingRoutes.POST("/invoices", billingHandler.Create)
	billingRoutes.GET("/invoices", billingHandler.ListForMonth)
	billingRoutes.POST("/invoices/:id/issue", billingHandler.Issue)
	billingRoutes.POST("/invoices/:id/pay", billingHandler.MarkPaid)
	billingRoutes.POST("/invoices/:id/void", billingHandler.Void)

	// Notification audit log, templates and gateway settings
	notificationRoutes := router.NewDomainGroup("notification", "/notifications")
	notificationRoutes.GET("/log", middleware.RequirePermission(identity.PermissionNotificationLog), notificationHandler.ListLog)
	notificationRoutes.GET("/templates", middleware.RequirePermission(identity.PermissionNotificationLog), notificationHandler.ListTemplates)
	notificationRoutes.PUT("/templates", middleware.RequirePermission(identity.PermissionCenterManage), notificationHandler.SetTemplate)
	notificationRoutes.GET("/gateway", middleware.RequirePermission(identity.PermissionCenterManage), notificationHandler.GatewayStatus)
	notificationRoutes.PUT("/gateway", middleware.RequirePermission(identity.PermissionCenterManage), notificationHandler.ConfigureGateway)
	notificationRoutes.DELETE("/gateway", middleware.RequirePermission(identity.PermissionCenterManage), notificationHandler.DisableGateway)

	// Identity domain (users, roles, centers)
	identityRoutes := router.NewDomainGroup("identity", "")

	identityRoutes.POST("/users", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.Create)
	identityRoutes.GET("/users", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.List)
	identityRoutes.GET("/users/:id", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.Get)
	identityRoutes.PUT("/users/:id", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.Update)
	identityRoutes.PUT("/users/:id/roles", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.AssignRoles)
	identityRoutes.PUT("/users/:id/password", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.ResetPassword)
	identityRoutes.POST("/users/:id/deactivate", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.Deactivate)
	identityRoutes.POST("/users/:id/unlock", middleware.RequirePermission(identity.PermissionUsersManage), userHandler.Unlock)

	identityRoutes.POST("/roles", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.Create)
	identityRoutes.GET("/roles", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.List)
	identityRoutes.GET("/roles/permissions", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.ListPermissions)
	identityRoutes.GET("/roles/:id", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.Get)
	identityRoutes.PUT("/roles/:id", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.Update)
	identityRoutes.DELETE("/roles/:id", middleware.RequirePermission(identity.PermissionUsersManage), roleHandler.Delete)

	identityRoutes.POST("/centers", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.Create)
	identityRoutes.GET("/centers", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.List)
	identityRoutes.GET("/centers/:id", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.Get)
	identityRoutes.PUT("/centers/:id", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.Update)
	identityRoutes.POST("/centers/:id/activate", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.Activate)
	identityRoutes.POST("/centers/:id/deactivate", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.Deactivate)
	identityRoutes.GET("/center", centerHandler.GetCurrent)
	identityRoutes.PUT("/center/config", middleware.RequirePermission(identity.PermissionCenterManage), centerHandler.UpdateConfig)

	// System routes: info, outbox administration and maintenance control
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", middleware.RequirePermission(identity.PermissionCenterManage), outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", middleware.RequirePermission(identity.PermissionCenterManage), outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", middleware.RequirePermission(identity.PermissionCenterManage), outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", middleware.RequirePermission(identity.PermissionCenterManage), outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/dead/retry-all", middleware.RequirePermission(identity.PermissionCenterManage), outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/maintenance/status", middleware.RequirePermission(identity.PermissionCenterManage), maintenanceHandler.GetStatus)
	systemRoutes.POST("/maintenance/run", middleware.RequirePermission(identity.PermissionCenterManage), maintenanceHandler.TriggerRun)
	systemRoutes.POST("/maintenance/jobs", middleware.RequirePermission(identity.PermissionCenterManage), maintenanceHandler.TriggerJob)

	// Register all domain groups
	r.Register(authRoutes).
		Register(rosterRoutes).
		Register(attendanceRoutes).
		Register(homeworkRoutes).
		Register(assessmentRoutes).
		Register(billingRoutes).
		Register(notificationRoutes).
		Register(identityRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
