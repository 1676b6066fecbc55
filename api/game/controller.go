package gameapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/torchmaze/api/identity"
	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/service"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const requestTimeout = 2 * time.Second

// GameController manages game sessions of the authenticated player.
type GameController struct {
	gameSessionManager i.GameSessionManager
	runRepo            i.RunRepo
	logger             i.Logger
	upgrader           websocket.Upgrader
}

// NewGameController initializes a GameController.
func NewGameController(gsm i.GameSessionManager, rr i.RunRepo, logger i.Logger) (*GameController, error) {
	if gsm == nil || rr == nil || logger == nil {
		return nil, errors.New("game controller needs a session manager, a run repo and a logger")
	}
	return &GameController{
		gameSessionManager: gsm,
		runRepo:            rr,
		logger:             logger,
		upgrader:           websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}, nil
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	games := route.Group("/games")
	{
		games.POST("", gc.start)
		games.GET("/:ID", gc.state)
		games.POST("/:ID/moves", gc.move)
		games.POST("/:ID/restart", gc.restart)
		games.DELETE("/:ID", gc.end)
		games.GET("/:ID/events", gc.stream)
	}
	route.GET("/runs", gc.runs)
}

// start begins a new session, replacing any session the player already has.
func (gc *GameController) start(ctx *gin.Context) {
	playerID, err := identity.UserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	sessionID, snap, err := gc.gameSessionManager.NewSession(timeoutCtx, playerID)
	if err != nil {
		gc.logger.Error(fmt.Sprintf("starting game for %s: %s", playerID, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while starting game"})
		return
	}

	ctx.JSON(http.StatusCreated, &SessionResponse{ID: sessionID.String(), State: snap})
}

func (gc *GameController) state(ctx *gin.Context) {
	sessionID, playerID, ok := sessionParams(ctx)
	if !ok {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	snap, err := gc.gameSessionManager.State(timeoutCtx, sessionID, playerID)
	if err != nil {
		writeSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (gc *GameController) move(ctx *gin.Context) {
	sessionID, playerID, ok := sessionParams(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	moved, snap, err := gc.gameSessionManager.Move(timeoutCtx, sessionID, playerID, request.Direction)
	if err != nil {
		writeSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &MoveResponse{Moved: moved, State: snap})
}

func (gc *GameController) restart(ctx *gin.Context) {
	sessionID, playerID, ok := sessionParams(ctx)
	if !ok {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	snap, err := gc.gameSessionManager.Restart(timeoutCtx, sessionID, playerID)
	if err != nil {
		writeSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (gc *GameController) end(ctx *gin.Context) {
	sessionID, playerID, ok := sessionParams(ctx)
	if !ok {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := gc.gameSessionManager.End(timeoutCtx, sessionID, playerID); err != nil {
		writeSessionError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// runs lists the player's finished runs, newest first.
func (gc *GameController) runs(ctx *gin.Context) {
	playerID, err := identity.UserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	runs, err := gc.runRepo.ByPlayer(playerID, limit)
	if err != nil {
		gc.logger.Error(fmt.Sprintf("listing runs of %s: %s", playerID, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while listing runs"})
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, RunResponse{Run: run, DurationSeconds: run.Duration().Seconds()})
	}
	ctx.JSON(http.StatusOK, resp)
}

// sessionParams reads the session ID from the path and the player from the token.
// It writes the error response itself when either is missing.
func sessionParams(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playerID, err := identity.UserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return uuid.Nil, uuid.Nil, false
	}
	return sessionID, playerID, true
}

func writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSessionOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidDirection):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrServerStopped):
		ctx.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
