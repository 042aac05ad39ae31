package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

func TestClient_PostJSON_SetsHeaders_AndDecodesResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected method POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected Content-Type application/json, got %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token-1" {
			t.Fatalf("expected Authorization Bearer token-1, got %q", auth)
		}

		var got map[string]any
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if got["a"] != float64(1) {
			t.Fatalf("expected a=1, got %#v", got["a"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	c := api.NewClient(srv.URL, true)

	var resp map[string]any
	if err := c.PostJSON(context.Background(), "/x", map[string]any{"a": 1}, &resp, "token-1"); err != nil {
		t.Fatalf("PostJSON returned error: %v", err)
	}
	if resp["ok"] != true {
		t.Fatalf("expected ok=true, got %#v", resp["ok"])
	}
}

func TestClient_PostJSON_NilBody_NoContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Fatalf("expected empty Content-Type, got %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Fatalf("expected empty Authorization, got %q", auth)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL+"/", false)
	if err := c.PostJSON(context.Background(), "/x", nil, nil, ""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestClient_ErrorBody_BecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "forbidden"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	err := c.GetJSON(context.Background(), "/x", nil, "t")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := api.StatusOf(err); got != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", got)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "forbidden" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_EmptyErrorBody_UsesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	err := c.DeleteJSON(context.Background(), "/x", nil, "")
	if err == nil || err.Error() != "502 Bad Gateway (502)" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Login_Logout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Email != "farmer@example.com" || req.Password != "pw" {
			t.Fatalf("unexpected login request: %+v", req)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{
			AccessToken: "tok",
			User:        models.UserInfo{ID: "u1", Email: req.Email, Name: "Ivan", Role: "farmer"},
		})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing bearer token")
		}
		json.NewEncoder(w).Encode(models.MessageResponse{Message: "Logout successful"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	ctx := context.Background()

	login, err := c.Login(ctx, "farmer@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccessToken != "tok" || login.User.Role != "farmer" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	out, err := c.Logout(ctx, login.AccessToken)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out.Message != "Logout successful" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestClient_CreateAnimal_SendsMultipart(t *testing.T) {
	img := filepath.Join(t.TempDir(), "cow.jpg")
	if err := os.WriteFile(img, []byte("jpeg-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/animals" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("type"); got != "cow" {
			t.Fatalf("type=%q", got)
		}
		if got := r.FormValue("age"); got != "3" {
			t.Fatalf("age=%q", got)
		}
		if got := r.FormValue("price"); got != "1500.5" {
			t.Fatalf("price=%q", got)
		}
		files := r.MultipartForm.File["images"]
		if len(files) != 1 || files[0].Filename != "cow.jpg" {
			t.Fatalf("unexpected files: %+v", files)
		}
		f, _ := files[0].Open()
		body, _ := io.ReadAll(f)
		f.Close()
		if string(body) != "jpeg-bytes" {
			t.Fatalf("unexpected file body %q", body)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.AnimalResponse{Message: "Animal created successfully", Animal: "a1"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	resp, err := c.CreateAnimal(context.Background(), "tok", api.AnimalForm{
		Type: "cow", Breed: "Holstein", Age: 3, Price: 1500.5, Description: "milk cow",
		Images: []string{img},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Animal != "a1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestClient_CreateAnimal_MissingFile(t *testing.T) {
	c := api.NewClient("http://127.0.0.1:1", false)
	_, err := c.CreateAnimal(context.Background(), "tok", api.AnimalForm{
		Images: []string{filepath.Join(t.TempDir(), "nope.jpg")},
	})
	if err == nil {
		t.Fatal("expected error for missing image file")
	}
}

func TestClient_UpdateAnimal_WithoutImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/animals/a1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if len(r.MultipartForm.File["images"]) != 0 {
			t.Fatal("expected no files")
		}
		json.NewEncoder(w).Encode(models.AnimalResponse{Message: "Animal updated successfully", Animal: "a1"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	if _, err := c.UpdateAnimal(context.Background(), "tok", "a1", api.AnimalForm{Type: "cow"}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestClient_ListAnimals_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, false)
	list, err := c.ListAnimals(context.Background(), "tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}
