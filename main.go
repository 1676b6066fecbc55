package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/torchmaze/api"
	gameapi "github.com/beka-birhanu/torchmaze/api/game"
	api_i "github.com/beka-birhanu/torchmaze/api/i"
	"github.com/beka-birhanu/torchmaze/api/identity"
	leaderboardapi "github.com/beka-birhanu/torchmaze/api/leaderboard"
	"github.com/beka-birhanu/torchmaze/config"
	logger "github.com/beka-birhanu/torchmaze/infrastruture/log"
	"github.com/beka-birhanu/torchmaze/infrastruture/repo"
	"github.com/beka-birhanu/torchmaze/infrastruture/sortedstorage"
	"github.com/beka-birhanu/torchmaze/infrastruture/token"
	"github.com/beka-birhanu/torchmaze/service"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	rules                 config.Rules
	userRepo              i.UserRepo
	runRepo               i.RunRepo
	sortedStore           i.SortedStore
	leaderboard           i.Leaderboard
	gameSessionManager    *service.GameSessionManager
	gameController        api_i.Controller
	leaderboardController api_i.Controller
	jwtTokenizer          i.Tokenizer
	authService           i.Authenticator
	authController        api_i.Controller
	router                *api.Router
	appLogger             i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initRules() {
	var err error
	rules, err = config.LoadRules(config.Envs.RulesFile)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading game rules: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Game rules loaded: %+v", rules))
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(client *mongo.Client) {
	var err error
	userRepo, err = repo.NewUserRepo(client, config.Envs.DBName, "users")
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating user repository: %v", err))
		os.Exit(1)
	}
	appLogger.Info("User repository initialized")

	runRepo, err = repo.NewRunRepo(client, config.Envs.DBName, "runs")
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating run repository: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Run repository initialized")
}

func initLeaderboard() {
	var err error
	sortedStore, err = sortedstorage.NewRedisSortedStore(redisClient, config.Envs.LeaderboardTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating sorted store: %v", err))
		os.Exit(1)
	}

	leaderboard, err = service.NewLeaderboard(sortedStore, userRepo, newLogger("LEADERBOARD", config.ColorPurple), nil)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating leaderboard: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Leaderboard initialized")
}

func initSessionManager() {
	var err error
	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Rules:       rules,
		Leaderboard: leaderboard,
		RunRepo:     runRepo,
		Logger:      newLogger("SESSION-MANAGER", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initGameControllers() {
	var err error
	gameController, err = gameapi.NewGameController(gameSessionManager, runRepo, newLogger("GAME-API", config.ColorBlue))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game controller: %v", err))
		os.Exit(1)
	}
	leaderboardController = leaderboardapi.NewLeaderboardController(leaderboard, newLogger("LEADERBOARD-API", config.ColorMagenta))
	appLogger.Info("Game controllers initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, gameController, leaderboardController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	config.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	initRules()
	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(ctx)
	defer redisClient.Close()

	initRepos(mongoClient)
	initLeaderboard()
	initSessionManager()
	defer gameSessionManager.StopAll()
	initGameControllers()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- router.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		gameSessionManager.StopAll()
		os.Exit(1)
	case sig := <-quit:
		appLogger.Info(fmt.Sprintf("Received %s, ending all games", sig))
	}
}
