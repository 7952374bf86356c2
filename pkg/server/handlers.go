package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

type callDataResponse struct {
	Data string `json:"data"`
}

func (s *Server) bindSwap(c *gin.Context) (*types.SwapRequest, bool) {
	var req types.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	return &req, true
}

// fail maps an aggregator error onto a status code
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, provider.ErrInvalidInput) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.log.WithError(err).Error("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func notFound(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: err.Error()})
}

func (s *Server) transactionRequest(c *gin.Context) {
	req, ok := s.bindSwap(c)
	if !ok {
		return
	}
	tr, err := s.svc.TransactionRequest(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if tr == nil {
		notFound(c, provider.ErrNoRoute)
		return
	}
	c.JSON(http.StatusOK, tr)
}

func (s *Server) transactionRequests(c *gin.Context) {
	req, ok := s.bindSwap(c)
	if !ok {
		return
	}
	routes, err := s.svc.AllTransactionRequests(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(routes) == 0 {
		notFound(c, provider.ErrNoRoute)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (s *Server) callData(c *gin.Context) {
	req, ok := s.bindSwap(c)
	if !ok {
		return
	}
	data, err := s.svc.CallData(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if data == "" {
		notFound(c, provider.ErrNoRoute)
		return
	}
	c.JSON(http.StatusOK, callDataResponse{Data: data})
}

func (s *Server) status(c *gin.Context) {
	var q types.StatusQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	res, err := s.svc.Status(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	if res == nil {
		notFound(c, errors.New("transfer not found"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// routers returns the router table of a provider as chain id -> address,
// or a single entry with ?chain=
func (s *Server) routers(c *gin.Context) {
	id, err := types.ParseProviderID(c.Param("provider"))
	if err != nil {
		notFound(c, err)
		return
	}
	table, ok := s.registry.Routers(id)
	if !ok {
		notFound(c, errors.New("provider not registered"))
		return
	}

	out := make(map[string]string, table.Len())
	if chain := c.Query("chain"); chain != "" {
		chainID, err := strconv.ParseInt(chain, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid chain id"})
			return
		}
		addr, ok := table.Router(chainID)
		if !ok {
			notFound(c, errors.New("no router on this chain"))
			return
		}
		out[chain] = addr
		c.JSON(http.StatusOK, out)
		return
	}
	for _, chainID := range table.ChainIDs() {
		addr, _ := table.Router(chainID)
		out[strconv.FormatInt(chainID, 10)] = addr
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) providers(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.Describe())
}
