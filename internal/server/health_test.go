package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{addr: "localhost:8080", want: "http://localhost:8080/health"},
		{addr: "ws://bar.example.com:8080/ws", want: "http://bar.example.com:8080/health"},
		{addr: "wss://bar.example.com/ws?x=1", want: "https://bar.example.com/health"},
		{addr: "https://bar.example.com", want: "https://bar.example.com/health"},
		{addr: "ftp://bar.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := HealthURL(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckHealth(t *testing.T) {
	srv, err := NewServer(testLogger(), 1)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	assert.NoError(t, CheckHealth(context.Background(), ts.Client(), ts.URL+"/health"))
	assert.Error(t, CheckHealth(context.Background(), ts.Client(), ts.URL+"/missing"))
}

func TestWaitForHealthyGivesUp(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	err := WaitForHealthy(ctx, down.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
