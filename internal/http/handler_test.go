package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/flymidia/contracts-service/internal/auth"
	"github.com/flymidia/contracts-service/internal/config"
	"github.com/flymidia/contracts-service/internal/http/middleware"
	"github.com/flymidia/contracts-service/internal/model"
	"github.com/flymidia/contracts-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory ContractStore for handler tests.
type memStore struct {
	contracts map[uuid.UUID]model.Contract
	byTaxID   []model.Contract
}

func newMemStore() *memStore {
	return &memStore{contracts: map[uuid.UUID]model.Contract{}}
}

func (m *memStore) Insert(_ context.Context, contract model.Contract) (*model.Contract, error) {
	contract.ID = uuid.New()
	m.contracts[contract.ID] = contract
	return &contract, nil
}

func (m *memStore) Update(_ context.Context, contract model.Contract) error {
	if _, ok := m.contracts[contract.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.contracts[contract.ID] = contract
	return nil
}

func (m *memStore) SetPaid(_ context.Context, id uuid.UUID) error {
	contract, ok := m.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	contract.IsPaid = true
	m.contracts[id] = contract
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.contracts, id)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, ok := m.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (m *memStore) ListByDueDate(_ context.Context) ([]model.Contract, error) {
	result := make([]model.Contract, 0, len(m.contracts))
	for _, contract := range m.contracts {
		result = append(result, contract)
	}
	return result, nil
}

func (m *memStore) FindByTaxID(_ context.Context, _ string) ([]model.Contract, error) {
	return m.byTaxID, nil
}

type stubPDF struct{}

func (stubPDF) Generate(model.Contract) ([]byte, error) { return []byte("%PDF-stub"), nil }

type stubExcel struct{}

func (stubExcel) Generate([]model.Contract) ([]byte, error) { return []byte("xlsx"), nil }

func newTestRouter(store *memStore) (*gin.Engine, string) {
	cfg := &config.Config{
		Environment: "test",
		Auth:        config.AuthConfig{AccessSecret: "test-secret", TokenExpireHours: 1},
		Admin:       config.AdminConfig{Email: "admin@flymidia.com.br", Password: "secret"},
		Payment:     config.PaymentConfig{Phone: "5575998713085"},
	}

	contracts := service.NewContractService(store, stubPDF{}, stubExcel{}, cfg)
	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.TokenExpireHours)
	parser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := NewHandler(contracts, issuer, cfg, zerolog.Nop())
	router := NewRouter(handler, middleware.Auth(parser), cfg.Environment)

	token, _, err := issuer.Issue(cfg.Admin.Email)
	if err != nil {
		panic(err)
	}
	return router, token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func contractBody() map[string]interface{} {
	return map[string]interface{}{
		"company_name":  "Padaria Central",
		"client_tax_id": "12345678901",
		"phone":         "(75) 99871-3085",
		"items": []map[string]interface{}{
			{"name": "Banner", "quantity": 2, "unit_price": 59.99},
			{"name": "Vídeo GIF", "quantity": 1, "unit_price": 79.99},
		},
		"discount_percent": 10,
		"due_date":         "2026-03-05",
		"city":             "Feira de Santana",
	}
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(newMemStore())

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			body:           map[string]string{"email": "admin@flymidia.com.br", "password": "secret"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"email": "admin@flymidia.com.br", "password": "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown email",
			body:           map[string]string{"email": "x@y.z", "password": "secret"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"email": "admin@flymidia.com.br"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/api/auth/login", "", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK {
				var resp loginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to parse response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected token in response")
				}
			}
		})
	}
}

func TestContractsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(newMemStore())

	w := doJSON(router, "GET", "/api/contracts", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreateContract(t *testing.T) {
	router, token := newTestRouter(newMemStore())

	w := doJSON(router, "POST", "/api/contracts", token, contractBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var saved model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if saved.TotalAmount != 179.97 {
		t.Errorf("expected total 179.97, got %v", saved.TotalAmount)
	}
	if saved.IsPaid {
		t.Error("expected unpaid default")
	}
}

func TestCreateContractInvalidDueDate(t *testing.T) {
	router, token := newTestRouter(newMemStore())

	body := contractBody()
	body["due_date"] = "garbage"

	w := doJSON(router, "POST", "/api/contracts", token, body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateContract(t *testing.T) {
	store := newMemStore()
	router, token := newTestRouter(store)

	w := doJSON(router, "POST", "/api/contracts", token, contractBody())
	var saved model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	body := contractBody()
	body["items"] = []map[string]interface{}{
		{"name": "Banner", "quantity": 1, "unit_price": 59.99},
	}
	body["discount_percent"] = 0

	w = doJSON(router, "PUT", "/api/contracts/"+saved.ID.String(), token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if updated.TotalAmount != 59.99 {
		t.Errorf("expected recomputed total 59.99, got %v", updated.TotalAmount)
	}
}

func TestMarkPaidAndDelete(t *testing.T) {
	store := newMemStore()
	router, token := newTestRouter(store)

	w := doJSON(router, "POST", "/api/contracts", token, contractBody())
	var saved model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	w = doJSON(router, "POST", "/api/contracts/"+saved.ID.String()+"/pay", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if !store.contracts[saved.ID].IsPaid {
		t.Error("expected contract marked paid")
	}

	w = doJSON(router, "DELETE", "/api/contracts/"+saved.ID.String(), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.contracts) != 0 {
		t.Error("expected contract removed")
	}
}

func TestMarkPaidUnknownContract(t *testing.T) {
	router, token := newTestRouter(newMemStore())

	w := doJSON(router, "POST", "/api/contracts/"+uuid.NewString()+"/pay", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestPreviewTotal(t *testing.T) {
	router, token := newTestRouter(newMemStore())

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"name": "Banner", "quantity": 2, "unit_price": 59.99},
			{"name": "Vídeo GIF", "quantity": 1, "unit_price": 79.99},
		},
		"discount_percent": 10,
	}

	w := doJSON(router, "POST", "/api/contracts/total", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 179.97 {
		t.Errorf("expected total 179.97, got %v", resp.Total)
	}
}

func TestLookupRejectsShortTaxID(t *testing.T) {
	router, _ := newTestRouter(newMemStore())

	w := doJSON(router, "GET", "/api/client/contracts?tax_id=123", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLookupEmptyResult(t *testing.T) {
	router, _ := newTestRouter(newMemStore())

	w := doJSON(router, "GET", "/api/client/contracts?tax_id=12345678901", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Contracts []model.ClientContract `json:"contracts"`
		Message   string                 `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Contracts) != 0 {
		t.Errorf("expected no contracts, got %d", len(resp.Contracts))
	}
	if resp.Message == "" {
		t.Error("expected an explicit empty-state message")
	}
}

func TestLookupReturnsPaymentLink(t *testing.T) {
	store := newMemStore()
	store.byTaxID = []model.Contract{
		{ID: uuid.New(), CompanyName: "Padaria Central", TotalAmount: 179.97, IsPaid: false},
	}
	router, _ := newTestRouter(store)

	w := doJSON(router, "GET", "/api/client/contracts?tax_id=12345678901", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Contracts []model.ClientContract `json:"contracts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Contracts) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(resp.Contracts))
	}
	if resp.Contracts[0].PaymentLink == "" {
		t.Error("expected payment link for unpaid contract")
	}
}

func TestExportEndpoints(t *testing.T) {
	store := newMemStore()
	router, token := newTestRouter(store)

	w := doJSON(router, "POST", "/api/contracts", token, contractBody())
	var saved model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	w = doJSON(router, "GET", "/api/contracts/"+saved.ID.String()+"/pdf", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected attachment disposition")
	}

	w = doJSON(router, "GET", "/api/contracts/export", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(w.Body.Bytes()) == 0 {
		t.Error("expected workbook bytes")
	}
}
