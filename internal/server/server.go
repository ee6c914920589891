// Package server is a development stand-in for the remote voucher service.
// It implements the wire contract the front end consumes - the /api/vouchers
// CRUD routes, the approve/reject transitions and the {data}/{error:{message}}
// envelopes - over a sqlite store, so the client can be exercised locally and
// in integration tests. It is not the production backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

// Config holds HTTP server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the voucher contract.
type Server struct {
	config     Config
	httpServer *http.Server
	router     *gin.Engine
	store      *Store
	logger     *zap.Logger
}

// New creates a server over the given store.
func New(cfg Config, store *Store, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: cfg,
		router: gin.New(),
		store:  store,
		logger: logger,
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("voucher service listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api/vouchers")
	api.POST("", s.createVoucher)
	api.GET("", s.listVouchers)
	api.GET("/:id", s.getVoucher)
	api.PUT("/:id", s.updateVoucher)
	api.DELETE("/:id", s.deleteVoucher)
	api.PATCH("/:id/approve", s.approveVoucher)
	api.PATCH("/:id/reject", s.rejectVoucher)
}

// fail writes the contract's error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}

type voucherPayload struct {
	Association   string  `json:"association"`
	FinancialYear string  `json:"financialYear"`
	Date          string  `json:"date"`
	Payee         string  `json:"payee"`
	Amount        float64 `json:"amount"`
	Purpose       string  `json:"purpose"`
	ApprovedBy    string  `json:"approvedBy"`
}

func (p *voucherPayload) validate() error {
	if p.Payee == "" || p.Amount == 0 || p.Purpose == "" || p.ApprovedBy == "" {
		return fmt.Errorf("payee, amount, purpose and approvedBy are required")
	}
	return nil
}

func (s *Server) createVoucher(c *gin.Context) {
	var payload voucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "Invalid voucher payload")
		return
	}
	if err := payload.validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Date == "" {
		payload.Date = time.Now().Format("2006-01-02")
	}

	rec := &Record{
		Association:   payload.Association,
		FinancialYear: payload.FinancialYear,
		Date:          payload.Date,
		Payee:         payload.Payee,
		Amount:        payload.Amount,
		Purpose:       payload.Purpose,
		ApprovedBy:    payload.ApprovedBy,
	}
	if err := s.store.Create(rec); err != nil {
		s.logger.Error("failed to create voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to create voucher")
		return
	}

	s.logger.Info("voucher created",
		zap.String("id", rec.ID),
		zap.String("voucher_number", rec.VoucherNumber))
	c.JSON(http.StatusCreated, gin.H{"data": rec})
}

func (s *Server) listVouchers(c *gin.Context) {
	records, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list vouchers", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to fetch vouchers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// lookup fetches the voucher for the path id, writing the 404 envelope when
// it does not exist.
func (s *Server) lookup(c *gin.Context) *Record {
	rec, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.logger.Error("failed to load voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to fetch voucher")
		return nil
	}
	if rec == nil {
		fail(c, http.StatusNotFound, "Voucher not found")
		return nil
	}
	return rec
}

func (s *Server) getVoucher(c *gin.Context) {
	if rec := s.lookup(c); rec != nil {
		c.JSON(http.StatusOK, gin.H{"data": rec})
	}
}

func (s *Server) updateVoucher(c *gin.Context) {
	rec := s.lookup(c)
	if rec == nil {
		return
	}

	var payload voucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "Invalid voucher payload")
		return
	}

	rec.Association = payload.Association
	rec.FinancialYear = payload.FinancialYear
	rec.Date = payload.Date
	rec.Payee = payload.Payee
	rec.Amount = payload.Amount
	rec.Purpose = payload.Purpose
	rec.ApprovedBy = payload.ApprovedBy

	if err := s.store.Update(rec); err != nil {
		s.logger.Error("failed to update voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to update voucher")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (s *Server) deleteVoucher(c *gin.Context) {
	rec := s.lookup(c)
	if rec == nil {
		return
	}

	if !voucher.Can(rec.Status, voucher.ActionDelete) {
		fail(c, http.StatusConflict,
			fmt.Sprintf("Cannot delete a %s voucher", rec.Status))
		return
	}

	if err := s.store.Delete(rec.ID); err != nil {
		s.logger.Error("failed to delete voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to delete voucher")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec, "message": "Voucher deleted successfully"})
}

func (s *Server) approveVoucher(c *gin.Context) {
	rec := s.lookup(c)
	if rec == nil {
		return
	}

	var body struct {
		ApprovedBy string `json:"approvedBy"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid approval payload")
		return
	}

	next, ok := voucher.NextStatus(rec.Status, voucher.ActionApprove)
	if !ok {
		fail(c, http.StatusConflict,
			fmt.Sprintf("Cannot approve a %s voucher", rec.Status))
		return
	}

	if err := s.store.SetStatus(rec.ID, next, body.ApprovedBy, ""); err != nil {
		s.logger.Error("failed to approve voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to approve voucher")
		return
	}

	rec.Status = next
	if body.ApprovedBy != "" {
		rec.ApprovedBy = body.ApprovedBy
	}
	rec.RejectionReason = ""
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (s *Server) rejectVoucher(c *gin.Context) {
	rec := s.lookup(c)
	if rec == nil {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid rejection payload")
		return
	}
	if body.Reason == "" {
		fail(c, http.StatusBadRequest, "A rejection reason is required")
		return
	}

	next, ok := voucher.NextStatus(rec.Status, voucher.ActionReject)
	if !ok {
		fail(c, http.StatusConflict,
			fmt.Sprintf("Cannot reject a %s voucher", rec.Status))
		return
	}

	if err := s.store.SetStatus(rec.ID, next, "", body.Reason); err != nil {
		s.logger.Error("failed to reject voucher", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to reject voucher")
		return
	}

	rec.Status = next
	rec.RejectionReason = body.Reason
	c.JSON(http.StatusOK, gin.H{"data": rec})
}
