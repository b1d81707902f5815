package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/abelbrown/tourfeed/internal/api"
	"github.com/abelbrown/tourfeed/internal/config"
	"github.com/abelbrown/tourfeed/internal/store"
	"github.com/creack/pty"
)

// buildTourfeed builds the tourfeed binary for testing.
func buildTourfeed(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "tourfeed")

	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// We are in test/e2e.
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/tourfeed")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

func TestE2E_SeedThenServe(t *testing.T) {
	homeDir := t.TempDir()
	dbPath, err := seedFixtureDB(homeDir)
	if err != nil {
		t.Fatalf("failed to seed fixture db: %v", err)
	}
	cfgPath, err := writeStoreConfig(homeDir, dbPath)
	if err != nil {
		t.Fatal(err)
	}

	opts := config.Options{Config: cfgPath}
	cfg, err := opts.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	posts, _ := cfg.PostSource(st)
	profiles, _ := cfg.ProfileSource(st)
	tours, _ := cfg.TourSource(st)
	srv := httptest.NewServer(api.NewServer(api.NewHandler(posts, profiles, tours, cfg.PagerSettings(), time.Second), ""))
	defer srv.Close()

	var feedResp api.FeedResponse
	getJSON(t, srv.URL+"/api/feed?mbti=ISTJ&sort=popularity", &feedResp)
	if feedResp.Total != 16 || len(feedResp.Items) != 7 || feedResp.NextLimit != 14 {
		t.Errorf("feed = total %d items %d next %d", feedResp.Total, len(feedResp.Items), feedResp.NextLimit)
	}
	if feedResp.Items[0].ID != "post-06" {
		t.Errorf("top post = %s, want post-06", feedResp.Items[0].ID)
	}

	var tourResp api.TourResponse
	getJSON(t, srv.URL+"/api/tours/1", &tourResp)
	if tourResp.Program.Host.Name != "홍길동" || !strings.Contains(tourResp.PriceLabel, "30,000") {
		t.Errorf("tour = %+v", tourResp.Program)
	}
}

func TestE2E_TUI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := buildTourfeed(t)

	// Clean home so the run never touches real data.
	homeDir := t.TempDir()
	dbPath, err := seedFixtureDB(homeDir)
	if err != nil {
		t.Fatalf("failed to seed fixture db: %v", err)
	}
	cfgPath, err := writeStoreConfig(homeDir, dbPath)
	if err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binPath, "--config", cfgPath, "tui")
	cmd.Env = append(os.Environ(), "HOME="+homeDir)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Fatalf("failed to start pty: %v", err)
	}
	defer func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
	}()

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 120, Rows: 40}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	var outputBuf bytes.Buffer
	console, err := expect.NewConsole(
		expect.WithStdin(ptmx),
		expect.WithStdout(&outputBuf),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}
	defer console.Close()

	t.Log("Waiting for the profile dropdown...")
	if _, err := console.ExpectString("성향 선택"); err != nil {
		logDir := filepath.Join(homeDir, ".tourfeed", "logs")
		if entries, err := os.ReadDir(logDir); err == nil {
			for _, e := range entries {
				if logs, err := os.ReadFile(filepath.Join(logDir, e.Name())); err == nil {
					t.Logf("%s:\n%s", e.Name(), logs)
				}
			}
		}
		t.Fatalf("startup failed: %v\nScreen:\n%s", err, outputBuf.String())
	}

	time.Sleep(500 * time.Millisecond) // allow the loads to land
	if _, err := console.Send("m"); err != nil {
		t.Fatalf("failed to send m: %v", err)
	}
	if _, err := console.ExpectString("ENFP"); err != nil {
		t.Fatalf("dropdown not shown: %v\nScreen:\n%s", err, outputBuf.String())
	}
	if _, err := console.Send("\r"); err != nil {
		t.Fatalf("failed to send Enter: %v", err)
	}
	if _, err := console.ExpectString("추천 지역"); err != nil {
		t.Fatalf("profile not applied: %v\nScreen:\n%s", err, outputBuf.String())
	}

	if _, err := console.Send("q"); err != nil {
		t.Fatalf("failed to send q: %v", err)
	}

	done := make(chan error)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("process did not exit after 'q'")
	}
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
