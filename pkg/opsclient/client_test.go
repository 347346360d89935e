package opsclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"kavalife-erp/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server, *int64) {
	t.Helper()

	var requests int64
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler.ServeHTTP(w, r)
	})

	srv := httptest.NewServer(counting)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv, &requests
}

func TestCreateGRNValidatesBeforeAnyNetworkCall(t *testing.T) {
	c, _, requests := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server despite an invalid payload")
	}))

	// container_qty missing entirely
	_, err := c.CreateGRN(context.Background(), GRNCreate{
		VIRNumber:       "VIR-072025-001",
		Quantity:        100,
		Invoice:         "INV-1",
		InvoiceDate:     "2025-07-14",
		PackagingStatus: model.PackagingPacked,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := atomic.LoadInt64(requests); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
}

func TestCreateVIRValidatesChecklist(t *testing.T) {
	c, _, requests := newTestClient(t, http.NotFoundHandler())

	_, err := c.CreateVIR(context.Background(), VIRCreate{Vendor: 1, Product: 10})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing checklist, got %v", err)
	}
	if n := atomic.LoadInt64(requests); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
}

func TestLoginStoresSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Username != "warehouse1" {
			t.Fatalf("username = %q", creds.Username)
		}
		http.SetCookie(w, &http.Cookie{Name: "kavalife_session", Value: "tok123", Path: "/"})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": model.User{ID: 5, Username: "warehouse1", Role: model.RoleUser},
		})
	})
	mux.HandleFunc("/api/checkUser", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("kavalife_session")
		if err != nil || cookie.Value != "tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": model.User{ID: 5, Username: "warehouse1"},
		})
	})

	c, _, _ := newTestClient(t, mux)
	ctx := context.Background()

	u, err := c.Login(ctx, "warehouse1", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Username != "warehouse1" {
		t.Fatalf("login user = %+v", u)
	}
	if c.SessionToken() != "tok123" {
		t.Fatalf("SessionToken = %q", c.SessionToken())
	}

	// The cookie from login must ride along on the next call
	if _, err := c.CheckUser(ctx); err != nil {
		t.Fatalf("CheckUser with session: %v", err)
	}
}

func TestCheckUserWithoutSessionIsUnauthorized(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
	}))

	_, err := c.CheckUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBearerTokenFallback(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok456" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []model.Vendor{}})
	}))
	WithSessionToken("tok456")(c)

	if _, err := c.FetchAllVendors(context.Background()); err != nil {
		t.Fatalf("FetchAllVendors with bearer token: %v", err)
	}
}

func TestFetchEnvelopeUnwrap(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vendor/allVendors" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []model.Vendor{{ID: 1, Name: "ABC Ltd."}, {ID: 2, Name: "XYZ Traders"}},
		})
	}))

	vendors, err := c.FetchAllVendors(context.Background())
	if err != nil {
		t.Fatalf("FetchAllVendors: %v", err)
	}
	if len(vendors) != 2 || vendors[0].Name != "ABC Ltd." {
		t.Fatalf("vendors = %+v", vendors)
	}
}

func TestFetchQAQCNullMeansNotCreated(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("processRef"); got != "GRN-072025-001" {
			t.Fatalf("processRef = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null\n"))
	}))

	entry, err := c.FetchQAQC(context.Background(), "grn", "GRN-072025-001")
	if err != nil {
		t.Fatalf("FetchQAQC: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry for JSON null, got %+v", entry)
	}
}

func TestFetchQAQCReturnsBareEntry(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.QAQC{
			ID:         7,
			ProcessRef: "GRN-072025-001",
			Status:     model.QAQCStatusApproved,
		})
	}))

	entry, err := c.FetchQAQC(context.Background(), "grn", "GRN-072025-001")
	if err != nil {
		t.Fatalf("FetchQAQC: %v", err)
	}
	if entry == nil || entry.ID != 7 || entry.Status != model.QAQCStatusApproved {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "GRN can only be created against a completed VIR"})
	}))

	_, err := c.CreateGRN(context.Background(), GRNCreate{
		VIRNumber:       "VIR-072025-001",
		ContainerQty:    4,
		Quantity:        100,
		Invoice:         "INV-1",
		InvoiceDate:     "2025-07-14",
		PackagingStatus: model.PackagingPacked,
	})
	if err == nil || !strings.Contains(err.Error(), "completed VIR") {
		t.Fatalf("server message lost: %v", err)
	}
}
