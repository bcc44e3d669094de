package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/types"
)

func (s *Server) registerRoutes() {
	r := s.router

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.Started).String(),
		})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/version", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{ContractVersion: &struct{}{}}, true
	}))
	r.GET("/balances", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{AllBalances: &struct{}{}}, true
	}))
	r.GET("/prices", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{AllPriceFeeds: &struct{}{}}, true
	}))
	r.GET("/errors", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{AllErrors: &struct{}{}}, true
	}))
	r.GET("/last-sequence", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{LastSequence: &struct{}{}}, true
	}))
	r.GET("/channels", s.query(func(*gin.Context) (types.QueryMsg, bool) {
		return types.QueryMsg{ListChannels: &struct{}{}}, true
	}))
	r.GET("/results/:sequence", s.query(func(c *gin.Context) (types.QueryMsg, bool) {
		seq, ok := sequenceParam(c)
		return types.QueryMsg{Result: &types.ResultQuery{Sequence: seq}}, ok
	}))

	r.GET("/pending/:sequence", func(c *gin.Context) {
		seq, ok := sequenceParam(c)
		if !ok {
			return
		}
		var res types.PendingResponse
		if !s.decode(c, types.QueryMsg{Pending: &types.PendingQuery{Sequence: seq}}, &res) {
			return
		}
		if res.Request == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no request with sequence " + c.Param("sequence")})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.GET("/channels/:id", func(c *gin.Context) {
		var res types.ChannelResponse
		if !s.decode(c, types.QueryMsg{Channel: &types.ChannelQuery{ID: c.Param("id")}}, &res) {
			return
		}
		if res.Channel == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": types.UnknownChannel{ID: c.Param("id")}.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})
}

// query serves the raw JSON answer to the message built from the request.
// build writes its own error response when it returns false.
func (s *Server) query(build func(c *gin.Context) (types.QueryMsg, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, ok := build(c)
		if !ok {
			return
		}
		bz, err := s.querier.QueryMsg(msg)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", bz)
	}
}

func (s *Server) decode(c *gin.Context, msg types.QueryMsg, out any) bool {
	bz, err := s.querier.QueryMsg(msg)
	if err != nil {
		s.writeError(c, err)
		return false
	}
	if err := json.Unmarshal(bz, out); err != nil {
		s.writeError(c, err)
		return false
	}
	return true
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var invalid types.InvalidRequest
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.Is(err, protocol.ErrNotInstantiated):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func sequenceParam(c *gin.Context) (uint64, bool) {
	seq, err := strconv.ParseUint(c.Param("sequence"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence: " + c.Param("sequence")})
		return 0, false
	}
	return seq, true
}
