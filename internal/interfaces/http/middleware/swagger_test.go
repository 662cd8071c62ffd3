package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerStatus(cfg SwaggerConfig, remoteAddr string) int {
	r := gin.New()
	r.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    SwaggerConfig
		remote string
		want   int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, "10.0.0.1:1", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, "203.0.113.9:1", http.StatusOK},
		{"exact ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:1", http.StatusOK},
		{"cidr", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.4.20:1", http.StatusOK},
		{"outside list", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1", "192.168.0.0/16"}}, "203.0.113.9:1", http.StatusForbidden},
		{"garbage entries ignored", SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip", "999.0.0.0/8"}}, "10.0.0.1:1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, swaggerStatus(tt.cfg, tt.remote))
		})
	}
}
