package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewVerifier_RequiresSettings(t *testing.T) {
	_, err := NewVerifier(context.Background(), "", "client")
	require.Error(t, err)
	_, err = NewVerifier(context.Background(), "https://issuer.example", "")
	require.Error(t, err)
}

func TestNewVerifier_DiscoveryAndRejection(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"issuer":                                srv.URL,
				"authorization_endpoint":                srv.URL + "/auth",
				"token_endpoint":                        srv.URL + "/token",
				"jwks_uri":                              srv.URL + "/keys",
				"id_token_signing_alg_values_supported": []string{"RS256"},
			})
		case "/keys":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"keys": []interface{}{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ver, err := NewVerifier(context.Background(), srv.URL, "stockboard")
	require.NoError(t, err)

	_, err = ver.Verify(context.Background(), "hdr.payload.sig")
	require.Error(t, err)
}

func TestNewVerifier_DiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := NewVerifier(context.Background(), srv.URL, "stockboard")
	require.Error(t, err)
}
