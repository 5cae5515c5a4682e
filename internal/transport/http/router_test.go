package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cybercase-service/internal/app"
	"cybercase-service/internal/infra/memory"
	"cybercase-service/internal/security"
	"cybercase-service/internal/seed"
)

type testEnv struct {
	server *httptest.Server
	feed   *app.LeaderboardFeed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bank, err := seed.Questions()
	if err != nil {
		t.Fatalf("load question bank: %v", err)
	}

	store := memory.NewUserStore()
	feed := app.NewLeaderboardFeed()
	tokens := security.NewTokenManager([]byte("test-secret"), time.Hour)

	quiz := app.NewQuizService(
		memory.NewQuestionRepository(memory.NewStaticQuestionLoader(bank), time.Minute),
		memory.NewSessionStore(), store, store, feed,
	)
	auth := app.NewAuthService(store, security.NewBcryptHasher(), tokens)
	cases := app.NewCaseService(memory.NewCaseRepository(seed.CaseNodes(), seed.CaseMetadata()))
	training := app.NewTrainingService(memory.NewDrillRepository(seed.DrillLevels()), memory.NewMissionStore(), seed.MissionOwner)

	router := NewRouter(tokens, Handlers{
		Auth:     NewAuthHandler(auth),
		Quiz:     NewQuizHandler(quiz),
		Case:     NewCaseHandler(cases),
		Training: NewTrainingHandler(training),
		WS:       NewWSHandler(quiz, feed),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, feed: feed}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

func (e *testEnv) signup(t *testing.T, name, email string) string {
	t.Helper()
	var signed struct {
		Token string `json:"token"`
	}
	resp := e.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		map[string]string{"username": name, "email": email, "password": "s3cret"}, &signed)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status %d", resp.StatusCode)
	}
	if signed.Token == "" {
		t.Fatal("signup returned no token")
	}
	return signed.Token
}

func TestQuizFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "Alice", "alice@example.com")

	var start struct {
		Questions []struct {
			ID      int64    `json:"id"`
			Options []string `json:"options"`
		} `json:"questions"`
		Timer int `json:"timer"`
	}
	resp := env.do(t, http.MethodGet, "/api/v1/quiz/start", token, nil, &start)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status %d", resp.StatusCode)
	}
	if len(start.Questions) != app.SessionSize || start.Timer != app.SessionTimerSeconds {
		t.Fatalf("unexpected session: %d questions, timer %d", len(start.Questions), start.Timer)
	}

	answers := map[string]int{}
	for _, q := range start.Questions {
		answers[fmt.Sprint(q.ID)] = 0
	}
	var result struct {
		Score int    `json:"score"`
		Total int    `json:"total"`
		Badge string `json:"badge"`
	}
	resp = env.do(t, http.MethodPost, "/api/v1/quiz/submit", token,
		map[string]any{"answers": answers}, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}
	if result.Total != app.SessionSize || result.Badge == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/quiz/submit", token,
		map[string]any{"answers": answers}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("resubmit should fail with 400, got %d", resp.StatusCode)
	}

	var board []struct {
		Username string `json:"username"`
	}
	resp = env.do(t, http.MethodGet, "/api/v1/quiz/leaderboard", "", nil, &board)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status %d", resp.StatusCode)
	}
	if len(board) != 1 || board[0].Username != "Alice" {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestQuizRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/quiz/start", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/quiz/start", "not-a-token", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", resp.StatusCode)
	}
}

func TestCaseEndpoints(t *testing.T) {
	env := newTestEnv(t)

	var files []struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		IsHidden bool   `json:"is_hidden"`
	}
	resp := env.do(t, http.MethodGet, "/api/v1/case/files", "", nil, &files)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	for _, f := range files {
		if f.IsHidden {
			t.Fatalf("hidden file %s leaked into the default listing", f.Name)
		}
	}

	var all []struct {
		Name string `json:"name"`
	}
	env.do(t, http.MethodGet, "/api/v1/case/files?show_hidden=1", "", nil, &all)
	if len(all) != len(files)+1 {
		t.Fatalf("expected one extra hidden file, got %d vs %d", len(all), len(files))
	}

	resp = env.do(t, http.MethodGet, "/api/v1/case/files/1/extract", "", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("extracting a plain file should 400, got %d", resp.StatusCode)
	}

	var verdict struct {
		Score  int    `json:"score"`
		Solved bool   `json:"solved"`
		Secret string `json:"secret"`
	}
	resp = env.do(t, http.MethodPost, "/api/v1/case/assessment", "", map[string]any{
		"malware_id":     "6",
		"sensitive_id":   7,
		"decoded_phrase": seed.CaseSecret,
	}, &verdict)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assessment status %d", resp.StatusCode)
	}
	if !verdict.Solved || verdict.Secret != seed.CaseSecret {
		t.Fatalf("mixed id encodings should still solve the case: %+v", verdict)
	}
}

func TestDrillEndpointsHideSolutions(t *testing.T) {
	env := newTestEnv(t)

	var drills []map[string]any
	resp := env.do(t, http.MethodGet, "/api/v1/drills", "", nil, &drills)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("drills status %d", resp.StatusCode)
	}
	if len(drills) == 0 {
		t.Fatal("expected seeded drills")
	}
	for _, d := range drills {
		if _, ok := d["solution"]; ok {
			t.Fatal("solution leaked through the drill listing")
		}
		if _, ok := d["hint"]; ok {
			t.Fatal("hint leaked through the drill listing")
		}
	}

	var check struct {
		Correct bool   `json:"correct"`
		Hint    string `json:"hint"`
	}
	env.do(t, http.MethodPost, "/api/v1/drills/1/check", "",
		map[string]any{"command": "wrong", "attempts": 1}, &check)
	if check.Correct || check.Hint == "" {
		t.Fatalf("second failure should unlock the hint: %+v", check)
	}
}

func TestMissionEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/mission/status", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	token := env.signup(t, "Alice", "alice@example.com")
	var status struct {
		Status string `json:"status"`
	}
	env.do(t, http.MethodGet, "/api/v1/mission/status", token, nil, &status)
	if status.Status != "not cleared" {
		t.Fatalf("fresh mission should be open, got %+v", status)
	}

	var checked struct {
		Cleared bool `json:"cleared"`
		Score   int  `json:"score"`
	}
	env.do(t, http.MethodPost, "/api/v1/mission/check", token,
		map[string]string{"answer": "Krithika"}, &checked)
	if !checked.Cleared || checked.Score != 100 {
		t.Fatalf("expected a cleared mission, got %+v", checked)
	}
}
