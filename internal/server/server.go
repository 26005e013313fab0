// Package server exposes the read-only query surface over HTTP. Every
// endpoint reads engine state; nothing here mutates, so the routes stay
// available while the system is paused.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"fixedratio/internal/engine"
)

type Server struct {
	*echo.Echo
	engine *engine.Engine
	logger *zap.Logger
}

func New(eng *engine.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	s := &Server{e, eng, logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.GET("/system", s.GetSystem)
	s.GET("/treasury", s.GetTreasury)
	s.GET("/pools", s.GetPools)
	s.GET("/pools/:address", s.GetPool)
	s.GET("/pools/:address/liquidity", s.GetLiquidity)
	s.GET("/pools/:address/fees", s.GetFees)
	s.GET("/pools/:address/delegates", s.GetDelegates)
	s.GET("/pools/:address/actions/:id", s.GetAction)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(addr)
	}()
	s.logger.Info("server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) GetSystem(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.SystemInfo())
}

func (s *Server) GetTreasury(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.TreasuryInfo())
}

func (s *Server) GetPools(c echo.Context) error {
	addrs := s.engine.PoolAddresses()
	pools := make([]engine.PoolInfo, 0, len(addrs))
	for _, addr := range addrs {
		info, err := s.engine.PoolInfo(addr)
		if err != nil {
			continue
		}
		pools = append(pools, info)
	}
	return c.JSON(http.StatusOK, pools)
}

func (s *Server) GetPool(c echo.Context) error {
	info, err := s.engine.PoolInfo(poolParam(c))
	if err != nil {
		return poolError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) GetLiquidity(c echo.Context) error {
	info, err := s.engine.LiquidityInfo(poolParam(c))
	if err != nil {
		return poolError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) GetFees(c echo.Context) error {
	info, err := s.engine.FeeInfo(poolParam(c))
	if err != nil {
		return poolError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) GetDelegates(c echo.Context) error {
	info, err := s.engine.DelegateInfo(poolParam(c))
	if err != nil {
		return poolError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) GetAction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action id")
	}
	info, err := s.engine.ActionInfo(poolParam(c), id)
	if err != nil {
		if err == engine.ErrActionNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "action not found")
		}
		return poolError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func poolParam(c echo.Context) common.Hash {
	return common.HexToHash(c.Param("address"))
}

func poolError(err error) error {
	if err == engine.ErrPoolNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "pool not found")
	}
	return err
}
