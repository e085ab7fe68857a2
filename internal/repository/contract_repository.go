package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flymidia/contracts-service/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// contractRow is the scan target; items arrive as raw JSONB.
type contractRow struct {
	ID               uuid.UUID
	CompanyName      string
	ClientTaxID      string
	Phone            string
	Items            []byte
	TotalAmount      float64
	DueDate          time.Time
	City             string
	DisplayLocation  string
	ResponsibleAdmin string
	IsPaid           bool
	Notes            string
	UpdatedAt        time.Time
}

const contractColumns = `
	id,
	company_name,
	client_tax_id,
	phone,
	items,
	total_amount,
	due_date,
	city,
	display_location,
	responsible_admin,
	is_paid,
	notes,
	updated_at
`

func (r *ContractRepository) Insert(ctx context.Context, contract model.Contract) (*model.Contract, error) {
	items, err := marshalItems(contract.Items)
	if err != nil {
		return nil, err
	}

	var row contractRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO contracts (
			company_name,
			client_tax_id,
			phone,
			items,
			total_amount,
			due_date,
			city,
			display_location,
			responsible_admin,
			is_paid,
			notes,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+contractColumns,
		contract.CompanyName,
		contract.ClientTaxID,
		contract.Phone,
		items,
		contract.TotalAmount,
		contract.DueDate,
		contract.City,
		contract.DisplayLocation,
		contract.ResponsibleAdmin,
		contract.IsPaid,
		contract.Notes,
		contract.UpdatedAt,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return rowToContract(row)
}

func (r *ContractRepository) Update(ctx context.Context, contract model.Contract) error {
	items, err := marshalItems(contract.Items)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET
			company_name = ?,
			client_tax_id = ?,
			phone = ?,
			items = ?,
			total_amount = ?,
			due_date = ?,
			city = ?,
			display_location = ?,
			responsible_admin = ?,
			is_paid = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ?
	`,
		contract.CompanyName,
		contract.ClientTaxID,
		contract.Phone,
		items,
		contract.TotalAmount,
		contract.DueDate,
		contract.City,
		contract.DisplayLocation,
		contract.ResponsibleAdmin,
		contract.IsPaid,
		contract.Notes,
		contract.UpdatedAt,
		contract.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPaid flips is_paid only; every other column is left untouched.
func (r *ContractRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contracts SET is_paid = TRUE WHERE id = ?
	`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM contracts WHERE id = ?
	`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return rowToContract(row)
}

// ListByDueDate returns every contract, earliest due date first.
func (r *ContractRepository) ListByDueDate(ctx context.Context) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts
		ORDER BY due_date ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToContracts(rows)
}

// FindByTaxID is an exact-match lookup against the stored formatted tax id.
func (r *ContractRepository) FindByTaxID(ctx context.Context, taxID string) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts
		WHERE client_tax_id = ?
	`, taxID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToContracts(rows)
}

// marshalItems returns the JSONB payload as text so the driver lets postgres
// coerce it to jsonb.
func marshalItems(items []model.LineItem) (string, error) {
	if items == nil {
		items = []model.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

func rowToContract(row contractRow) (*model.Contract, error) {
	items := []model.LineItem{}
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items for contract %s: %w", row.ID, err)
		}
	}
	return &model.Contract{
		ID:               row.ID,
		CompanyName:      row.CompanyName,
		ClientTaxID:      row.ClientTaxID,
		Phone:            row.Phone,
		Items:            items,
		TotalAmount:      row.TotalAmount,
		DueDate:          row.DueDate,
		City:             row.City,
		DisplayLocation:  row.DisplayLocation,
		ResponsibleAdmin: row.ResponsibleAdmin,
		IsPaid:           row.IsPaid,
		Notes:            row.Notes,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func rowsToContracts(rows []contractRow) ([]model.Contract, error) {
	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contract, err := rowToContract(row)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *contract)
	}
	return contracts, nil
}
