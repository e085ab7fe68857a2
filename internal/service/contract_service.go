package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flymidia/contracts-service/internal/billing"
	"github.com/flymidia/contracts-service/internal/config"
	"github.com/flymidia/contracts-service/internal/format"
	"github.com/flymidia/contracts-service/internal/model"
	"github.com/flymidia/contracts-service/internal/payment"
)

// ContractStore is what the service needs from persistence.
type ContractStore interface {
	Insert(ctx context.Context, contract model.Contract) (*model.Contract, error)
	Update(ctx context.Context, contract model.Contract) error
	SetPaid(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListByDueDate(ctx context.Context) ([]model.Contract, error)
	FindByTaxID(ctx context.Context, taxID string) ([]model.Contract, error)
}

type PDFGenerator interface {
	Generate(contract model.Contract) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(contracts []model.Contract) ([]byte, error)
}

type ContractService struct {
	store ContractStore
	pdf   PDFGenerator
	excel ExcelGenerator
	cfg   *config.Config
}

func NewContractService(store ContractStore, pdf PDFGenerator, excel ExcelGenerator, cfg *config.Config) *ContractService {
	return &ContractService{
		store: store,
		pdf:   pdf,
		excel: excel,
		cfg:   cfg,
	}
}

type LineItemInput struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SaveInput carries the contract form. A nil ID means the record is a draft
// and will be inserted; otherwise the record is updated in full.
type SaveInput struct {
	ID               uuid.UUID
	CompanyName      string
	ClientTaxID      string
	Phone            string
	Items            []LineItemInput
	DiscountPercent  float64
	DueDate          time.Time
	City             string
	DisplayLocation  string
	ResponsibleAdmin string
	IsPaid           bool
	Notes            string
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// Save validates and normalizes the form, recomputes every subtotal and the
// contract total, and inserts or updates depending on identity. The total is
// never taken from the caller.
func (s *ContractService) Save(ctx context.Context, input SaveInput) (*model.Contract, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}

	taxDigits := format.Digits(input.ClientTaxID)
	if taxDigits != "" && len(taxDigits) != 11 {
		return nil, fmt.Errorf("%w: tax id must have exactly 11 digits", ErrInvalidInput)
	}

	items := make([]model.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		item := model.LineItem{
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		item.Subtotal = billing.Round2(billing.Subtotal(item))
		items = append(items, item)
	}

	contract := model.Contract{
		ID:               input.ID,
		CompanyName:      strings.TrimSpace(input.CompanyName),
		ClientTaxID:      format.TaxID(input.ClientTaxID),
		Phone:            format.Digits(input.Phone),
		Items:            items,
		TotalAmount:      billing.ComputeTotal(items, input.DiscountPercent),
		DueDate:          dateOnly(input.DueDate),
		City:             input.City,
		DisplayLocation:  input.DisplayLocation,
		ResponsibleAdmin: input.ResponsibleAdmin,
		IsPaid:           input.IsPaid,
		Notes:            input.Notes,
		UpdatedAt:        time.Now().UTC(),
	}

	if contract.ID == uuid.Nil {
		saved, err := s.store.Insert(ctx, contract)
		if err != nil {
			return nil, err
		}
		return saved, nil
	}

	if err := s.store.Update(ctx, contract); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// PreviewTotal computes the total for the live form preview. Same function
// as Save, so previewed and persisted totals cannot diverge.
func (s *ContractService) PreviewTotal(input SaveInput) float64 {
	items := make([]model.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, model.LineItem{
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}
	return billing.ComputeTotal(items, input.DiscountPercent)
}

func (s *ContractService) List(ctx context.Context) ([]model.Contract, error) {
	return s.store.ListByDueDate(ctx)
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// MarkPaid flips the payment flag and nothing else.
func (s *ContractService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetPaid(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// LookupByTaxID serves the client-facing area. The identifier is validated
// locally before any query; fewer than 11 digits never reaches the store.
// Unpaid results carry a prefilled payment conversation link.
func (s *ContractService) LookupByTaxID(ctx context.Context, raw string) ([]model.ClientContract, error) {
	digits := format.Digits(raw)
	if len(digits) != 11 {
		return nil, fmt.Errorf("%w: tax id must have exactly 11 digits", ErrInvalidInput)
	}

	contracts, err := s.store.FindByTaxID(ctx, format.TaxID(digits))
	if err != nil {
		return nil, err
	}

	results := make([]model.ClientContract, 0, len(contracts))
	for _, contract := range contracts {
		result := model.ClientContract{Contract: contract}
		if !contract.IsPaid {
			message := payment.Message(contract)
			link, err := payment.Link(s.cfg.Payment.Phone, message)
			if err != nil {
				return nil, err
			}
			result.PaymentMessage = message
			result.PaymentLink = link
		}
		results = append(results, result)
	}
	return results, nil
}

// ExportPDF renders the contract statement for a single contract.
func (s *ContractService) ExportPDF(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*contract)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(contract.CompanyName)
	if name == "" {
		name = contract.ID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contrato-%s.pdf", name),
		Content:  content,
	}, nil
}

// ExportExcel renders the full contract list as a workbook.
func (s *ContractService) ExportExcel(ctx context.Context) (*ExportResult, error) {
	contracts, err := s.store.ListByDueDate(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(contracts)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("contratos-%s.xlsx", time.Now().Format("20060102")),
		Content:  content,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
