package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadImage_成功(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	data, err := DownloadImage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestDownloadImage_服务端错误自动重试(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 前两次 502，第三次成功
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	data, err := DownloadImage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
	assert.EqualValues(t, 3, atomic.LoadInt64(&calls))
}

func TestDownloadImage_4xx不重试(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := DownloadImage(context.Background(), server.URL)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "客户端错误重试也不会变好")
}
