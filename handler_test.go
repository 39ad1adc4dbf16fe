package clientauth_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	xjwt "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	. "github.com/oidauth/clientauth"
	"github.com/oidauth/clientauth/internal/consts"
	"github.com/oidauth/clientauth/storage"
)

const tokenRelativePath = "/api/oauth2/token"

func newTokenEndpointServer(t *testing.T, clients ...Client) (*httptest.Server, string) {
	t.Helper()

	store := storage.NewMemoryStoreClients(clients...)
	config := &Config{}

	verifier := NewVerifier(store, config)
	handler := NewTokenEndpointHandler(verifier)

	router := mux.NewRouter()
	router.Handle(tokenRelativePath, handler)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	config.TokenURL = ts.URL + tokenRelativePath

	return ts, config.TokenURL
}

func TestTokenEndpointClientCredentials(t *testing.T) {
	_, tokenURL := newTokenEndpointServer(t, &DefaultOpenIDClient{
		DefaultClient: &DefaultClient{
			ID:           "my-client",
			ClientSecret: NewPlainTextClientSecret("foobar"),
		},
		TokenEndpointAuthMethod: "client_secret_basic",
	})

	t.Run("ShouldIssueTokenWithBasicAuth", func(t *testing.T) {
		cfg := &clientcredentials.Config{
			ClientID:     "my-client",
			ClientSecret: "foobar",
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		token, err := cfg.Token(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
	})

	t.Run("ShouldRejectWrongSecret", func(t *testing.T) {
		cfg := &clientcredentials.Config{
			ClientID:     "my-client",
			ClientSecret: "not-foobar",
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		_, err := cfg.Token(context.Background())
		require.Error(t, err)

		var retrieve *oauth2.RetrieveError

		require.ErrorAs(t, err, &retrieve)
		assert.Equal(t, http.StatusUnauthorized, retrieve.Response.StatusCode)
		assert.Equal(t, "invalid_client", gjson.GetBytes(retrieve.Body, "error").String())
	})

	t.Run("ShouldRejectPostAuthForBasicClient", func(t *testing.T) {
		cfg := &clientcredentials.Config{
			ClientID:     "my-client",
			ClientSecret: "foobar",
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		}

		_, err := cfg.Token(context.Background())
		require.Error(t, err)

		var retrieve *oauth2.RetrieveError

		require.ErrorAs(t, err, &retrieve)
		assert.Equal(t, http.StatusUnauthorized, retrieve.Response.StatusCode)
		assert.Equal(t, "invalid_client", gjson.GetBytes(retrieve.Body, "error").String())
	})
}

func TestTokenEndpointClientSecretJWT(t *testing.T) {
	_, tokenURL := newTokenEndpointServer(t, &DefaultOpenIDClient{
		DefaultClient: &DefaultClient{
			ID:           "jwt-client",
			ClientSecret: NewPlainTextClientSecret("foobar"),
		},
		TokenEndpointAuthMethod: "client_secret_jwt",
	})

	form := url.Values{
		consts.FormParameterGrantType: []string{"client_credentials"},
		"client_assertion": {mustGenerateHSAssertion(t, xjwt.MapClaims{
			consts.ClaimSubject:        "jwt-client",
			consts.ClaimIssuer:         "jwt-client",
			consts.ClaimJWTID:          "one-time-jti",
			consts.ClaimAudience:       tokenURL,
			consts.ClaimExpirationTime: time.Now().Add(time.Hour).Unix(),
		}, []byte("foobar"))},
		"client_assertion_type": []string{consts.ClientAssertionTypeJWTBearer},
	}

	response, err := http.PostForm(tokenURL, form)
	require.NoError(t, err)

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, response.StatusCode, string(body))
	assert.Equal(t, "no-store", response.Header.Get(consts.HeaderCacheControl))
	assert.NotEmpty(t, gjson.GetBytes(body, consts.AccessResponseAccessToken).String())
	assert.Equal(t, "bearer", gjson.GetBytes(body, consts.AccessResponseTokenType).String())
	assert.Equal(t, int64(3600), gjson.GetBytes(body, consts.AccessResponseExpiresIn).Int())

	// Replaying the same assertion must fail.
	response, err = http.PostForm(tokenURL, form)
	require.NoError(t, err)

	defer response.Body.Close()

	body, err = io.ReadAll(response.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "invalid_client", gjson.GetBytes(body, "error").String())
	assert.Contains(t, gjson.GetBytes(body, "error_description").String(), "jti")
}

func TestTokenEndpointRequiresGrantType(t *testing.T) {
	_, tokenURL := newTokenEndpointServer(t, &DefaultOpenIDClient{
		DefaultClient: &DefaultClient{
			ID:           "my-client",
			ClientSecret: NewPlainTextClientSecret("foobar"),
		},
		TokenEndpointAuthMethod: "client_secret_basic",
	})

	r, err := http.NewRequest(http.MethodPost, tokenURL, strings.NewReader(""))
	require.NoError(t, err)

	r.Header.Set(consts.HeaderContentType, consts.ContentTypeApplicationURLEncodedForm)
	r.SetBasicAuth("my-client", "foobar")

	response, err := http.DefaultClient.Do(r)
	require.NoError(t, err)

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "invalid_request", gjson.GetBytes(body, "error").String())
	assert.Contains(t, gjson.GetBytes(body, "error_description").String(), "grant_type")
}

func TestTokenEndpointRejectsNonPost(t *testing.T) {
	ts, tokenURL := newTokenEndpointServer(t)

	response, err := ts.Client().Get(tokenURL)
	require.NoError(t, err)

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "invalid_request", gjson.GetBytes(body, "error").String())
}

func TestTokenEndpointMalformedRequest(t *testing.T) {
	_, tokenURL := newTokenEndpointServer(t, &DefaultOpenIDClient{
		DefaultClient: &DefaultClient{
			ID:           "my-client",
			ClientSecret: NewPlainTextClientSecret("foobar"),
		},
		TokenEndpointAuthMethod: "client_secret_basic",
	})

	// Basic credentials and a form secret at once is a conflict.
	form := url.Values{
		"client_id":     []string{"my-client"},
		"client_secret": []string{"foobar"},
	}

	r, err := http.NewRequest(http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	require.NoError(t, err)

	r.Header.Set(consts.HeaderContentType, consts.ContentTypeApplicationURLEncodedForm)
	r.SetBasicAuth("my-client", "foobar")

	response, err := http.DefaultClient.Do(r)
	require.NoError(t, err)

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "invalid_request", gjson.GetBytes(body, "error").String())
}
