package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"tier": "is required"}}, http.StatusBadRequest},
		{"capacity", fmt.Errorf("create ad: %w", &services.CapacityError{Limit: 5}), http.StatusConflict},
		{"policy", &storage.PolicyError{Reason: "image cannot exceed 3MB"}, http.StatusBadRequest},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not found", fmt.Errorf("get ad: %w", services.ErrNotFound), http.StatusNotFound},
		{"storage off", storage.ErrNotConfigured, http.StatusServiceUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.want, w.Code)
			var resp StandardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRespondErrorHidesInternalFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/ads", nil)
	respondError(c, zap.New(core), errors.New("pq: relation \"ads\" does not exist"))

	assert.NotContains(t, w.Body.String(), "relation")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestRespondErrorListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, zap.NewNop(), &services.ValidationError{Fields: map[string]string{
		"image_url":       "is required",
		"expiration_date": "is required unless the ad is permanent",
	}})

	var resp StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Len(t, resp.Errors, 2)
}
