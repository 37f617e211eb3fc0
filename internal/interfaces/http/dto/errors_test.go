package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"payment not found via suffix", "PAYMENT_NOT_FOUND", http.StatusNotFound},
		{"invoice not found via suffix", "INVOICE_NOT_FOUND", http.StatusNotFound},
		{"quote not found via suffix", "QUOTE_NOT_FOUND", http.StatusNotFound},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"duplicate request", ErrCodeDuplicateRequest, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"invalid amount via prefix", "INVALID_AMOUNT", http.StatusUnprocessableEntity},
		{"invalid method via prefix", "INVALID_METHOD", http.StatusUnprocessableEntity},
		{"invalid rate via prefix", "INVALID_RATE", http.StatusUnprocessableEntity},
		{"invalid input stays 400", ErrCodeInvalidInput, http.StatusBadRequest},
		{"bad request", ErrCodeBadRequest, http.StatusBadRequest},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"invariant violation", ErrCodeInvariantViolation, http.StatusInternalServerError},
		{"unknown code", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Invoice not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Invoice not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestListRequest_Normalize(t *testing.T) {
	r := ListRequest{}
	r.Normalize()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 20, r.PageSize)

	r = ListRequest{Page: 3, PageSize: 50}
	r.Normalize()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 50, r.PageSize)
}
