package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruberanziza1/alx-project-nexus/pkg/router"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}
}

func TestNamedRoutesAndGroups(t *testing.T) {
	r := router.New()
	api := r.Group("/api/v1")
	api.Get("/products", "products.list", okHandler("list"))
	api.Get("/products/{slug}", "products.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(router.Param(req, "slug"))) //nolint:errcheck
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/v1/products/blue-mug")
	require.NoError(t, err)
	defer res.Body.Close()

	buf := make([]byte, 16)
	n, _ := res.Body.Read(buf)
	assert.Equal(t, "blue-mug", string(buf[:n]))

	path, ok := r.Path("products.list")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/products", path)

	url, err := r.URL("products.show", map[string]string{"slug": "blue-mug"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/products/blue-mug", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "missing params must fail")
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var sawHeader bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sawHeader = req.Header.Get("X-Token") != ""
			if !sawHeader {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	}

	r := router.New()
	authed := r.Group("/private", mw)
	authed.Get("/me", "me", okHandler("me"))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/private/me")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/private/me", nil)
	req.Header.Set("X-Token", "x")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRoutesListingSorted(t *testing.T) {
	r := router.New()
	r.Post("/b", "b.create", okHandler(""))
	r.Get("/a", "a.list", okHandler(""))
	r.Get("/b", "b.list", okHandler(""))

	infos := r.Routes()
	require.Len(t, infos, 3)
	assert.Equal(t, "a.list", infos[0].Name)
	assert.Equal(t, http.MethodGet, infos[1].Method)
	assert.Equal(t, http.MethodPost, infos[2].Method)
}
