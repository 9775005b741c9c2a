package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":7,"nome":"Merlin","email":"merlin@example.com"}`))
	token := header + "." + payload + ".sig"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/categorias", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"nome":"Cartas","cor":"azul"}]`)
	})
	mux.HandleFunc("/api/produtos", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"meta":{"total":1,"perPage":10,"currentPage":1,"lastPage":1},"data":[{"id":5,"nome":"Deck Dragão","preco":"19.90"}]}`)
	})
	mux.HandleFunc("/api/produtos/5", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":5,"nome":"Deck Dragão","preco":"10.00","urlImagem":"d.png"}`)
	})
	mux.HandleFunc("/api/usuarios/7", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":7,"nome":"Merlin","email":"merlin@example.com","documento":"12345678901","cep":"99999999","cidade":"Avalon"}`)
	})
	mux.HandleFunc("/ws/01001000/json/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"type": "bearer", "token": token})
	})
	mux.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":99}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("ADDRESS_URL", srv.URL+"/ws")
	return srv
}

func run(t *testing.T, api, db string, args ...string) (string, error) {
	t.Helper()
	root, c := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--api", api, "--db", db}, args...))
	err := root.Execute()
	require.NoError(t, c.close(context.Background()))
	return out.String(), err
}

func TestCatalogueCommands(t *testing.T) {
	api := fakeAPI(t).URL
	db := filepath.Join(t.TempDir(), "state.db")

	out, err := run(t, api, db, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "bg-blue-400")

	out, err = run(t, api, db, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "1 Produtos Disponíveis")
	assert.Contains(t, out, "R$19,90")
	assert.Contains(t, out, "Página 1 de 1")

	_, err = run(t, api, db, "products", "--search", "x", "--category", "2")
	assert.Error(t, err)
}

func TestCartPersistsAcrossRunsAndCheckout(t *testing.T) {
	api := fakeAPI(t).URL
	db := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, api, db, "cart", "add", "5")
	require.NoError(t, err)
	_, err = run(t, api, db, "cart", "add", "5")
	require.NoError(t, err)

	out, err := run(t, api, db, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Deck Dragão")
	assert.Contains(t, out, "R$20,00")

	_, err = run(t, api, db, "cart", "add", "404")
	require.Error(t, err)

	_, err = run(t, api, db, "checkout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autenticado")

	out, err = run(t, api, db, "login", "merlin@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Merlin")

	out, err = run(t, api, db, "checkout", "--payment", "pix")
	require.NoError(t, err)
	assert.Contains(t, out, "#99")

	out, err = run(t, api, db, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "vazio")
}

func TestProfileAddressPreviewAndLogout(t *testing.T) {
	api := fakeAPI(t).URL
	db := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, api, db, "login", "merlin@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err := run(t, api, db, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "123.456.789-01")
	assert.Contains(t, out, "Avalon")

	out, err = run(t, api, db, "profile", "--cep", "01001-000")
	require.NoError(t, err)
	assert.Contains(t, out, "Praça da Sé")
	assert.Contains(t, out, "São Paulo/SP")

	out, err = run(t, api, db, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Voltando para /")

	_, err = run(t, api, db, "profile")
	assert.Error(t, err)
}
