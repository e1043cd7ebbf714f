package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/testutil"
	"github.com/ndewijer/graham-screener/internal/version"
)

func setupSystemHandler(t *testing.T) (*SystemHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewSystemHandler(testutil.NewTestSystemService(t, db)), db
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		closeDB      bool
		wantCode     int
		wantStatus   string
		wantDatabase string
	}{
		{"healthy with an open database", false, http.StatusOK, "healthy", "connected"},
		{"unhealthy once the database is closed", true, http.StatusServiceUnavailable, "unhealthy", "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, db := setupSystemHandler(t)
			if tt.closeDB {
				db.Close()
			}

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

			if w.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if resp.Database != tt.wantDatabase {
				t.Errorf("Expected database %q, got %q", tt.wantDatabase, resp.Database)
			}
			if resp.Version != version.Version {
				t.Errorf("Expected version %q, got %q", version.Version, resp.Version)
			}
			if tt.closeDB == (resp.Error == "") {
				t.Errorf("Unexpected error field %q", resp.Error)
			}
		})
	}
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("reports build, schema and features", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		w := httptest.NewRecorder()
		handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var info model.VersionInfo
		if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if info.AppVersion != version.Version || info.Commit != version.Commit {
			t.Errorf("Unexpected build %q (%q)", info.AppVersion, info.Commit)
		}
		if info.DbVersion != "1" {
			t.Errorf("Expected db_version 1, got %q", info.DbVersion)
		}
		if info.MigrationNeeded {
			t.Error("Expected no pending migrations")
		}
		if !info.Features["fmp_rating"] {
			t.Errorf("Expected fmp_rating feature, got %v", info.Features)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupSystemHandler(t)
		db.Close()

		w := httptest.NewRecorder()
		handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}
