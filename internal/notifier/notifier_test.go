package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

type settingsStub struct {
	enabled bool
	err     error
}

func (s settingsStub) GetSettings() (models.AppSettings, error) {
	return models.AppSettings{NotificationsEnabled: s.enabled}, s.err
}

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func withProcess(t *testing.T, exe string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if exe == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestPermissionGranted(t *testing.T) {
	tests := []struct {
		name string
		src  SettingsSource
		want bool
	}{
		{"enabled", settingsStub{enabled: true}, true},
		{"disabled", settingsStub{}, false},
		{"settings error", settingsStub{enabled: true, err: errors.New("db closed")}, false},
		{"no source", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.src).PermissionGranted(); got != tt.want {
				t.Errorf("PermissionGranted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrayConfigDir(t *testing.T) {
	dir := withConfigDir(t)
	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)

	got, err := TrayConfigDir()
	if err != nil || got != trayDir {
		t.Fatalf("TrayConfigDir() = %q, %v; want %q", got, err, trayDir)
	}

	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := filepath.Join(dir, "custom")
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := TrayConfigDir(); got != custom {
		t.Errorf("TrayConfigDir() = %q, want %q", got, custom)
	}
}

func TestFindTray(t *testing.T) {
	tests := []struct {
		name    string
		content string
		exe     string
		wantErr bool
	}{
		{"valid", "8080|123|s3cret", "habitquest-tray", false},
		{"two parts", "8080|123", "habitquest-tray", true},
		{"garbage", "invalid", "habitquest-tray", true},
		{"bad port", "http|123|s3cret", "habitquest-tray", true},
		{"port out of range", "70000|123|s3cret", "habitquest-tray", true},
		{"bad pid", "8080|abc|s3cret", "habitquest-tray", true},
		{"empty secret", "8080|123| ", "habitquest-tray", true},
		{"process gone", "8080|123|s3cret", "", true},
		{"wrong process", "8080|123|s3cret", "bash", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcess(t, tt.exe)
			lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if err := os.WriteFile(lockfile, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			port, secret, err := findTray(lockfile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("findTray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (port != 8080 || secret != "s3cret") {
				t.Errorf("findTray() = %d, %q", port, secret)
			}
		})
	}

	if _, _, err := findTray(filepath.Join(t.TempDir(), "missing.lock")); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile error = %v, want %v", err, ErrTrayNotRunning)
	}
}

func TestNotify(t *testing.T) {
	var got Payload
	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Habitquest-Secret")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	dir := withConfigDir(t)
	withProcess(t, "habitquest-tray")
	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|%d|topsecret", u.Port(), os.Getpid())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0o600); err != nil {
		t.Fatal(err)
	}

	n := New(settingsStub{enabled: true})
	if err := n.Notify("Level Up!", "You've reached Level 2! Keep up the great work!"); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if gotSecret != "topsecret" {
		t.Errorf("secret header = %q", gotSecret)
	}
	if got.Title != "Level Up!" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}
}

func TestNotifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad secret", http.StatusUnauthorized)
	}))
	defer srv.Close()
	u, _ := url.Parse(srv.URL)
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	if err := New(nil).send(port, "wrong", Payload{Text: "hi"}); err == nil {
		t.Error("send() expected an error for 401")
	}
}
