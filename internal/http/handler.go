package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flymidia/contracts-service/internal/auth"
	"github.com/flymidia/contracts-service/internal/config"
	"github.com/flymidia/contracts-service/internal/http/middleware"
	"github.com/flymidia/contracts-service/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	issuer    *auth.Issuer
	cfg       *config.Config
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, issuer *auth.Issuer, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, issuer: issuer, cfg: cfg, log: log}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Email     string `json:"email"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Email != h.cfg.Admin.Email || req.Password != h.cfg.Admin.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, expiresAt, err := h.issuer.Issue(req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("issue token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Email:     req.Email,
	})
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": principal.Email})
}

type lineItemRequest struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type contractRequest struct {
	CompanyName      string            `json:"company_name" binding:"required"`
	ClientTaxID      string            `json:"client_tax_id"`
	Phone            string            `json:"phone"`
	Items            []lineItemRequest `json:"items"`
	DiscountPercent  float64           `json:"discount_percent"`
	DueDate          string            `json:"due_date" binding:"required"`
	City             string            `json:"city"`
	DisplayLocation  string            `json:"display_location"`
	ResponsibleAdmin string            `json:"responsible_admin"`
	IsPaid           bool              `json:"is_paid"`
	Notes            string            `json:"notes"`
}

func (req contractRequest) toInput(id uuid.UUID, dueDate time.Time) service.SaveInput {
	items := make([]service.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.LineItemInput{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return service.SaveInput{
		ID:               id,
		CompanyName:      req.CompanyName,
		ClientTaxID:      req.ClientTaxID,
		Phone:            req.Phone,
		Items:            items,
		DiscountPercent:  req.DiscountPercent,
		DueDate:          dueDate,
		City:             req.City,
		DisplayLocation:  req.DisplayLocation,
		ResponsibleAdmin: req.ResponsibleAdmin,
		IsPaid:           req.IsPaid,
		Notes:            req.Notes,
	}
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *Handler) createContract(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	contract, err := h.contracts.Save(c.Request.Context(), req.toInput(uuid.Nil, dueDate))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	contract, err := h.contracts.Save(c.Request.Context(), req.toInput(id, dueDate))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) markPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.contracts.MarkPaid(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type totalRequest struct {
	Items           []lineItemRequest `json:"items"`
	DiscountPercent float64           `json:"discount_percent"`
}

func (h *Handler) previewTotal(c *gin.Context) {
	var req totalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]service.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.LineItemInput{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	total := h.contracts.PreviewTotal(service.SaveInput{
		Items:           items,
		DiscountPercent: req.DiscountPercent,
	})
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *Handler) lookupContracts(c *gin.Context) {
	results, err := h.contracts.LookupByTaxID(c.Request.Context(), c.Query("tax_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if len(results) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"contracts": results,
			"message":   "Nenhum contrato encontrado.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": results})
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.contracts.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportContractsExcel(c *gin.Context) {
	result, err := h.contracts.ExportExcel(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("contract operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
