package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"2.1.0","download_url":"https://example.com/pos-2.1.0","notes":"correcciones","force":false}`))
	}))
	defer srv.Close()

	info, err := NewChecker(srv.URL).Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.1.0", info.Version)
	require.Equal(t, "https://example.com/pos-2.1.0", info.DownloadURL)
	require.False(t, info.Force)
}

func TestCheckFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewChecker(srv.URL).Check(context.Background())
	require.Error(t, err)
}

func TestCheckBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewChecker(srv.URL).Check(context.Background())
	require.Error(t, err)
}

func TestIsNewer(t *testing.T) {
	cases := []struct {
		latest  string
		current string
		want    bool
	}{
		{"2.1.0", "2.0.0", true},
		{"2.0.0", "2.0.0", false},
		{"2.0.0", "2.1.0", false},
		{"2.0.1", "2.0.0", true},
		{"v2.1.0", "2.0.9", true},
		{"2.1", "2.0.9", true},
		{"2.0.0.1", "2.0.0", true},
		{"", "", false},
	}

	for _, tc := range cases {
		info := Info{Version: tc.latest}
		require.Equal(t, tc.want, info.IsNewer(tc.current), "latest=%s current=%s", tc.latest, tc.current)
	}
}
