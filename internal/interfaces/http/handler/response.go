package handler

import "github.com/storefront/backend/internal/interfaces/http/dto"

// APIResponse documents the envelope with a typed data field
// @Description Standard API response wrapper
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents an error envelope
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// CountData carries a bare count
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
