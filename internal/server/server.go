// Package server exposes the planner over HTTP and streams live autoplay
// games over websockets.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snakebot/internal/ai"
	"snakebot/internal/autoplay"
	"snakebot/internal/config"
	"snakebot/internal/env"
	"snakebot/internal/grid"
)

const maxTickMS = 1000

// Server holds the handlers' shared configuration.
type Server struct {
	cfg      *config.Config
	logger   log.Logger
	upgrader websocket.Upgrader
}

// New creates a server. A nil logger discards everything.
func New(cfg *config.Config, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/move", s.handleMove)
	r.GET("/watch", s.handleWatch)
	return r
}

func (s *Server) handleMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, b, err := req.Board()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var override *grid.Direction
	if req.Override != "" {
		d, err := grid.ParseDirection(req.Override)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		override = &d
	}

	dec, err := ai.NewPlanner(g, ai.WithLogger(s.logger), ai.WithFoodAttempts(s.cfg.Game.FoodAttempts)).Decide(b)
	if errors.Is(err, ai.ErrNoLegalMove) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if override != nil && *override != dec.Direction {
		_ = level.Debug(s.logger).Log("msg", "override superseded", "key", *override, "move", dec.Direction)
	}

	c.JSON(http.StatusOK, MoveResponse{Move: dec.Direction.String(), Rule: dec.Rule.String()})
}

func (s *Server) handleWatch(c *gin.Context) {
	seed := s.cfg.GameSeed()
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed: " + err.Error()})
			return
		}
		seed = uint32(n)
	}
	interval := s.cfg.TickInterval()
	if v := c.Query("tick_ms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTickMS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tick_ms must be between 1 and 1000"})
			return
		}
		interval = time.Duration(n) * time.Millisecond
	}

	g, err := s.cfg.NewGrid()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	game, err := env.NewGame(g, s.cfg.GameOptions(), seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		_ = level.Warn(s.logger).Log("msg", "websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	logger := log.With(s.logger, "watch", id)
	_ = level.Info(logger).Log("msg", "watch started", "seed", seed, "tick_ms", interval.Milliseconds())

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	// The client never sends anything; reading only notices the disconnect.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	session := autoplay.NewSession(game, seed,
		autoplay.WithLogger(logger),
		autoplay.WithPlanner(ai.NewPlanner(g, ai.WithLogger(logger), ai.WithFoodAttempts(s.cfg.Game.FoodAttempts))),
		autoplay.WithInterval(interval),
	)

	send := func(f Frame) error {
		return conn.WriteJSON(f)
	}
	if err := send(frame(id, g, game, nil)); err != nil {
		return
	}
	err = session.Run(ctx, nil, func(res autoplay.TickResult) error {
		return send(frame(id, g, game, &res))
	})
	if err != nil {
		_ = level.Debug(logger).Log("msg", "watch ended early", "err", err)
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, game.DeathReason.String()))
}

func frame(id string, g grid.Grid, game *env.Game, res *autoplay.TickResult) Frame {
	snake, food := boardPoints(g, game.Board)
	f := Frame{
		ID:    id,
		Tick:  game.Tick,
		Snake: snake,
		Food:  food,
		Alive: game.Alive,
	}
	if res != nil && res.Rule != ai.RuleNone {
		f.Move = res.Direction.String()
		f.Rule = res.Rule.String()
	}
	if !game.Alive {
		f.Death = game.DeathReason.String()
	}
	return f
}
