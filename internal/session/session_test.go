package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/SlpAus/urble-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

func testGame() game.Game {
	return game.Game{
		GameID: "game-1",
		Date:   "2024-05-05",
		Rounds: []game.Round{
			{Word: "rizz", Choices: []game.Choice{{ID: "a1", Text: "charm"}, {ID: "a2", Text: "dance"}}, CorrectChoiceID: "a1"},
			{Word: "yeet", Choices: []game.Choice{{ID: "b1", Text: "throw"}, {ID: "b2", Text: "sleep"}}, CorrectChoiceID: "b1"},
		},
	}
}

func mustAdvance(t *testing.T, s Session, g game.Game, ev Event) (Session, Outcome) {
	t.Helper()
	next, out, err := Advance(s, g, ev)
	if err != nil {
		t.Fatalf("advance %s from %s: %v", ev.Type, s.Phase, err)
	}
	return next, out
}

func TestFullPlaythrough(t *testing.T) {
	g := testGame()
	s := New(g)
	if s.Phase != PhaseSplash || s.Total != 2 {
		t.Fatalf("unexpected initial session %+v", s)
	}

	s, _ = mustAdvance(t, s, g, Event{Type: EventStart})
	s, _ = mustAdvance(t, s, g, Event{Type: EventSkipAd})
	if s.Phase != PhasePlaying {
		t.Fatalf("expected playing, got %s", s.Phase)
	}

	s, out := mustAdvance(t, s, g, Event{Type: EventAnswer, ChoiceID: "a1"})
	if !out.Correct || out.CorrectChoiceID != "a1" || s.Score != 1 || s.Phase != PhasePlaying {
		t.Fatalf("unexpected state after first answer: %+v %+v", s, out)
	}
	s, out = mustAdvance(t, s, g, Event{Type: EventAnswer, ChoiceID: "b2"})
	if out.Correct || out.CorrectChoiceID != "b1" || s.Score != 1 || s.Phase != PhaseOutroAd {
		t.Fatalf("unexpected state after last answer: %+v %+v", s, out)
	}

	s, out = mustAdvance(t, s, g, Event{Type: EventSkipAd})
	if s.Phase != PhaseResult || !out.Finished {
		t.Fatalf("expected result phase, got %+v", s)
	}
	if len(s.Answers) != 2 || !s.Answers[0].Correct || s.Answers[1].Correct {
		t.Fatalf("unexpected answers %+v", s.Answers)
	}
}

func TestAdvanceRejectsOutOfPhaseEvents(t *testing.T) {
	g := testGame()
	splash := New(g)
	intro, _ := mustAdvance(t, splash, g, Event{Type: EventStart})
	playing, _ := mustAdvance(t, intro, g, Event{Type: EventSkipAd})

	tests := []struct {
		name string
		s    Session
		ev   Event
		want error
	}{
		{"answer on splash", splash, Event{Type: EventAnswer, ChoiceID: "a1"}, ErrInvalidTransition},
		{"skip on splash", splash, Event{Type: EventSkipAd}, ErrInvalidTransition},
		{"start twice", intro, Event{Type: EventStart}, ErrInvalidTransition},
		{"skip while playing", playing, Event{Type: EventSkipAd}, ErrInvalidTransition},
		{"unknown event", playing, Event{Type: "cheat"}, ErrInvalidTransition},
		{"choice from other round", playing, Event{Type: EventAnswer, ChoiceID: "b1"}, ErrUnknownChoice},
		{"empty choice", playing, Event{Type: EventAnswer}, ErrUnknownChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := Advance(tt.s, g, tt.ev)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if next.Phase != tt.s.Phase || next.Round != tt.s.Round {
				t.Fatal("rejected event must not change the session")
			}
		})
	}

	other := g
	other.GameID = "game-2"
	if _, _, err := Advance(playing, other, Event{Type: EventAnswer, ChoiceID: "a1"}); !errors.Is(err, ErrGameMismatch) {
		t.Fatalf("expected ErrGameMismatch, got %v", err)
	}
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	g := testGame()
	s := New(g)
	s, _ = mustAdvance(t, s, g, Event{Type: EventStart})
	s, _ = mustAdvance(t, s, g, Event{Type: EventSkipAd})
	s, _ = mustAdvance(t, s, g, Event{Type: EventAnswer, ChoiceID: "a1"})

	before := len(s.Answers)
	next, _ := mustAdvance(t, s, g, Event{Type: EventAnswer, ChoiceID: "b1"})
	if len(s.Answers) != before || s.Round != 1 {
		t.Fatal("Advance modified its input")
	}
	if len(next.Answers) != before+1 {
		t.Fatal("expected answer appended to the new session")
	}
}

func TestProjectHidesAnswers(t *testing.T) {
	g := testGame()
	s := New(g)
	s.Phase = PhasePlaying
	v := Project(s, g)
	if v.Round == nil || v.Round.Word != "rizz" || len(v.Round.Choices) != 2 {
		t.Fatalf("unexpected view %+v", v)
	}
	raw, _ := json.Marshal(v)
	if bytes.Contains(raw, []byte("correctChoiceId")) || bytes.Contains(raw, []byte("isReal")) {
		t.Fatalf("view leaks the answer: %s", raw)
	}
	if Project(New(g), g).Round != nil {
		t.Fatal("splash view should not include a round")
	}
}

type stubGames struct{ g game.Game }

func (s stubGames) TodayGame(context.Context) (game.Game, error) { return s.g, nil }
func (s stubGames) Get(_ context.Context, date string) (*game.Game, error) {
	if date != s.g.Date {
		return nil, nil
	}
	g := s.g
	return &g, nil
}

type recordCall struct {
	userID, date string
	score, total int
}

type stubRecorder struct{ calls []recordCall }

func (r *stubRecorder) Record(_ context.Context, userID, date, _ string, score, rounds int) (bool, error) {
	r.calls = append(r.calls, recordCall{userID, date, score, rounds})
	return true, nil
}

func TestHandlerPlaythroughRecordsResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &stubRecorder{}
	h := NewHandler(stubGames{testGame()}, token.NewSigner([]byte("secret")), rec)

	const uid = "01890a5d-ac96-774b-bcce-b302099a8057"
	r := gin.New()
	r.Use(user.LoadUserMiddleware())
	r.POST("/api/session", h.Start)
	r.POST("/api/session/advance", h.Advance)

	post := func(path string, body any) (*httptest.ResponseRecorder, Response) {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: user.CookieName, Value: uid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp Response
		json.Unmarshal(w.Body.Bytes(), &resp)
		return w, resp
	}

	w, resp := post("/api/session", nil)
	if w.Code != http.StatusOK || resp.View.Phase != PhaseSplash {
		t.Fatalf("start: %d %s", w.Code, w.Body)
	}

	steps := []Event{
		{Type: EventStart},
		{Type: EventSkipAd},
		{Type: EventAnswer, ChoiceID: "a1"},
		{Type: EventAnswer, ChoiceID: "b1"},
		{Type: EventSkipAd},
	}
	tok := resp.Token
	for _, ev := range steps {
		w, resp = post("/api/session/advance", AdvanceRequest{Token: tok, Event: ev})
		if w.Code != http.StatusOK {
			t.Fatalf("advance %s: %d %s", ev.Type, w.Code, w.Body)
		}
		tok = resp.Token
	}
	if resp.View.Phase != PhaseResult || resp.View.Score != 2 {
		t.Fatalf("unexpected final view %+v", resp.View)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (recordCall{uid, "2024-05-05", 2, 2}) {
		t.Fatalf("unexpected record calls %+v", rec.calls)
	}

	// 结束后再提交事件属于非法转换
	w, _ = post("/api/session/advance", AdvanceRequest{Token: tok, Event: Event{Type: EventSkipAd}})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 after result, got %d", w.Code)
	}

	// 篡改过的token被拒绝
	w, _ = post("/api/session/advance", AdvanceRequest{Token: tok + "x", Event: Event{Type: EventStart}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for tampered token, got %d", w.Code)
	}
}
