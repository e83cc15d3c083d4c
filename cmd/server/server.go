package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/handlers"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/upload"
	"github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/auth"
)

type Server struct {
	cfg        *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *websocket.Hub
	Coord      *coordinator.Coordinator
	Archiver   *database.Archiver
	Files      *upload.JetStreamStore

	httpServer     *http.Server
	stopBackground context.CancelFunc
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	hub := websocket.NewHub()
	archiver := database.NewArchiver(db, cfg.ArchiveBuffer)
	coord := coordinator.New(hub, coordinator.Options{
		QuietPeriod:       cfg.TypingQuietPeriod,
		HistoryLimit:      cfg.HistoryLimit,
		MaxMessageLength:  cfg.MaxMessageLength,
		MaxRoomNameLength: cfg.MaxRoomNameLength,
		Archive:           archiver,
	})

	rooms, messages, err := db.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	coord.Restore(rooms, messages)
	coord.EnsureRoom(coordinator.Room{
		Name:        cfg.DefaultRoom,
		Description: "Main chat room",
		Category:    coordinator.CategoryGeneral,
		CreatedBy:   "System",
	})
	slog.Info("state restored", "rooms", len(rooms), "messages", len(messages))

	var files *upload.JetStreamStore
	var fileService *upload.Service
	if cfg.NATSURL != "" {
		files, err = upload.NewJetStreamStore(cfg.NATSURL, cfg.UploadBucket)
		if err != nil {
			return nil, err
		}
		if err := files.Init(ctx); err != nil {
			files.Close()
			return nil, err
		}
		fileService = upload.NewService(files, cfg.MaxUploadBytes)
	} else {
		slog.Warn("NATS_URL is empty, uploads are disabled")
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	APIEndpoints(router, Handlers{
		Auth:      handlers.NewAuthHandler(jwtMgr, auth.NewRedisBlacklist(rdb)),
		Rooms:     handlers.NewRoomHandler(coord),
		Messages:  handlers.NewHTTPMessageHandler(coord),
		Users:     handlers.NewUserHandler(coord, db),
		Uploads:   handlers.NewUploadHandler(fileService),
		WebSocket: handlers.NewWebSocketHandler(hub, coord, db, cfg.DefaultRoom),
	}, middleware.AuthMiddleware(jwtMgr, auth.NewRedisBlacklist(rdb)))

	return &Server{
		cfg:        cfg,
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Coord:      coord,
		Archiver:   archiver,
		Files:      files,
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		},
	}, nil
}

// Run запускает хаб, архиватор и HTTP сервер. Возвращается после Shutdown.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel

	go s.Hub.Run()
	go s.Archiver.Run(ctx)

	slog.Info("server starting", "port", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown закрывает соединения, дописывает архив и освобождает клиентов хранилищ
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http: %w", err))
	}
	s.Hub.Stop()

	if s.stopBackground != nil {
		s.stopBackground()
		select {
		case <-s.Archiver.Done():
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("archive flush: %w", ctx.Err()))
		}
	}

	if s.Files != nil {
		if err := s.Files.Close(); err != nil {
			errs = append(errs, fmt.Errorf("nats: %w", err))
		}
	}
	if err := s.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis: %w", err))
	}
	if err := s.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("postgres: %w", err))
	}
	return errors.Join(errs...)
}
