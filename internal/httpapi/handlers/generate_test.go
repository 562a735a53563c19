package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/config"
	"github.com/oratioapp/oratio-backend/internal/deck"
	"github.com/oratioapp/oratio-backend/internal/httpapi/middleware"
	"github.com/oratioapp/oratio-backend/internal/narration"
)

const testUserID uint64 = 7

// countingLimiter admits the first quota requests and rejects the rest.
type countingLimiter struct {
	quota int
	seen  int
}

func (l *countingLimiter) Allow(ctx context.Context, userID uint64) (bool, error) {
	_ = ctx
	_ = userID
	l.seen++
	return l.seen <= l.quota, nil
}

// countingBackend proves whether model calls happened at all.
type countingBackend struct {
	calls int
	err   error
}

func (b *countingBackend) Generate(ctx context.Context, systemPrompt, userPrompt, image string) (string, error) {
	_ = ctx
	_ = systemPrompt
	_ = userPrompt
	_ = image
	b.calls++
	if b.err != nil {
		return "", b.err
	}
	return "generated narration", nil
}

func openHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&deck.Presentation{}, &deck.Slide{}, &deck.Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type generateTestEnv struct {
	handler *Handler
	router  *gin.Engine
	backend *countingBackend
	limiter *countingLimiter
	repo    *deck.Repo
	deckID  string
}

func newGenerateTestEnv(t *testing.T, slides int) *generateTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openHandlerTestDB(t)
	repo := deck.NewRepo(db)
	svc := deck.NewService(repo)

	var inputs []deck.SlideInput
	for i := 1; i <= slides; i++ {
		inputs = append(inputs, deck.SlideInput{Position: i, ExtractedText: fmt.Sprintf("slide %d", i)})
	}
	deckID := ""
	if slides > 0 {
		id, _, err := svc.CreateFromUpload(context.Background(), testUserID, "deck.pdf", inputs)
		if err != nil {
			t.Fatalf("seed deck: %v", err)
		}
		deckID = id
	}

	backend := &countingBackend{}
	limiter := &countingLimiter{quota: 5}
	prompts := narration.DefaultPromptTable()
	gen := narration.NewGenerator(backend, prompts)

	h := &Handler{
		DB:      db,
		Cfg:     config.Config{},
		Limiter: limiter,
		Repo:    repo,
		DeckSvc: svc,
		Orch:    narration.NewOrchestrator(repo, gen, narration.PartialFailurePolicy{ContinueOnError: true}),
		Batch:   narration.NewBatchRunner(repo, backend, prompts, "@@@SLIDE@@@"),
	}

	r := gin.New()
	r.POST("/api/generate-script", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, testUserID)
	}, h.GenerateScript)

	return &generateTestEnv{handler: h, router: r, backend: backend, limiter: limiter, repo: repo, deckID: deckID}
}

func (e *generateTestEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-script", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func generateBody(deckID string) string {
	return fmt.Sprintf(`{"presentation_id":%q,"config":{"style":"normal","length":"medium"}}`, deckID)
}

func TestGenerateScript_HappyPathWritesScripts(t *testing.T) {
	env := newGenerateTestEnv(t, 3)

	w := env.post(t, generateBody(env.deckID))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if env.backend.calls != 3 {
		t.Fatalf("expected one backend call per slide, got %d", env.backend.calls)
	}

	p, err := env.repo.GetPresentationWithSlides(context.Background(), env.deckID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for _, s := range p.Slides {
		if s.ScriptMedium != "generated narration" {
			t.Errorf("slide %d: got %q", s.Position, s.ScriptMedium)
		}
	}
}

func TestGenerateScript_SixthRequestIsRejectedBeforeAnyModelCall(t *testing.T) {
	env := newGenerateTestEnv(t, 1)

	for i := 0; i < 5; i++ {
		if w := env.post(t, generateBody(env.deckID)); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d body %s", i+1, w.Code, w.Body.String())
		}
	}
	callsBefore := env.backend.calls

	w := env.post(t, generateBody(env.deckID))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "42901") {
		t.Fatalf("expected business code 42901 in body: %s", w.Body.String())
	}
	if env.backend.calls != callsBefore {
		t.Fatalf("rejected request must not reach the backend: before=%d after=%d", callsBefore, env.backend.calls)
	}
}

func TestGenerateScript_MissingFieldsAreBadRequest(t *testing.T) {
	env := newGenerateTestEnv(t, 1)

	cases := []string{
		`{}`,
		`{"presentation_id":"x"}`,
		fmt.Sprintf(`{"presentation_id":%q,"config":{"style":"shakespearean","length":"medium"}}`, env.deckID),
	}
	for _, body := range cases {
		if w := env.post(t, body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if env.backend.calls != 0 {
		t.Fatalf("invalid requests must not reach the backend, got %d calls", env.backend.calls)
	}
}

func TestGenerateScript_ForeignDeckIsNotFound(t *testing.T) {
	env := newGenerateTestEnv(t, 2)

	// hand the deck to another user
	if err := env.handler.DB.Model(&deck.Presentation{}).Where("id = ?", env.deckID).
		Update("user_id", testUserID+1).Error; err != nil {
		t.Fatalf("reassign: %v", err)
	}

	w := env.post(t, generateBody(env.deckID))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", w.Code, w.Body.String())
	}
	if env.backend.calls != 0 {
		t.Fatalf("foreign deck must not reach the backend, got %d calls", env.backend.calls)
	}
}

func TestGenerateScript_EmptyDeckIsBadRequest(t *testing.T) {
	env := newGenerateTestEnv(t, 0)

	// create a presentation row with no slides
	if err := env.handler.DB.Create(&deck.Presentation{
		ID: "01EMPTYDECK00000000000000P", FileName: "e.pdf", FileHash: "eh", UserID: testUserID,
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := env.post(t, generateBody("01EMPTYDECK00000000000000P"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", w.Code, w.Body.String())
	}
}

func TestGenerateScript_BatchModeUsesOneCall(t *testing.T) {
	env := newGenerateTestEnv(t, 4)

	body := fmt.Sprintf(`{"presentation_id":%q,"config":{"style":"simple","length":"short"},"mode":"batch"}`, env.deckID)
	w := env.post(t, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if env.backend.calls != 1 {
		t.Fatalf("batch mode should make exactly one backend call, got %d", env.backend.calls)
	}
}

// brokenStore makes every persist fail so the whole run collapses.
type brokenStore struct {
	repo *deck.Repo
}

func (s *brokenStore) GetPresentationWithSlides(ctx context.Context, id string) (*deck.Presentation, error) {
	return s.repo.GetPresentationWithSlides(ctx, id)
}

func (s *brokenStore) UpdateSlideScript(ctx context.Context, slideID string, slot deck.ScriptSlot, text string) error {
	return errors.New("storage offline")
}

func TestGenerateScript_DemoFallbackKicksInOnTotalFailure(t *testing.T) {
	env := newGenerateTestEnv(t, 2)

	gen := narration.NewGenerator(env.backend, narration.DefaultPromptTable())
	env.handler.Orch = narration.NewOrchestrator(&brokenStore{repo: env.repo}, gen,
		narration.PartialFailurePolicy{ContinueOnError: false})
	env.handler.Fallback = narration.NewFallbackWriter(env.repo, narration.DemoFallback())

	w := env.post(t, generateBody(env.deckID))
	if w.Code != http.StatusOK {
		t.Fatalf("fallback should answer 200, got %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"fallback":true`) {
		t.Fatalf("response should flag the fallback: %s", w.Body.String())
	}

	p, err := env.repo.GetPresentationWithSlides(context.Background(), env.deckID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	demo := narration.DemoFallback()
	for _, s := range p.Slides {
		want := demo.Text(s.Position)
		if s.ScriptSimple != want || s.ScriptMedium != want || s.ScriptPro != want {
			t.Errorf("slide %d: fallback should fill all slots", s.Position)
		}
	}
}

func TestGenerateScript_TotalFailureWithoutFallbackIs500(t *testing.T) {
	env := newGenerateTestEnv(t, 2)

	gen := narration.NewGenerator(env.backend, narration.DefaultPromptTable())
	env.handler.Orch = narration.NewOrchestrator(&brokenStore{repo: env.repo}, gen,
		narration.PartialFailurePolicy{ContinueOnError: false})

	w := env.post(t, generateBody(env.deckID))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "50005") {
		t.Fatalf("expected business code 50005 in body: %s", w.Body.String())
	}
}
