package exam

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// fakeBackend records submit/cancel calls and can be told to fail.
type fakeBackend struct {
	mu sync.Mutex

	submitErr error
	cancelErr error

	submits []map[string]string
	cancels int
}

func (f *fakeBackend) SubmitAnswers(_ context.Context, _, _ string, answers map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	snapshot := make(map[string]string, len(answers))
	for k, v := range answers {
		snapshot[k] = v
	}
	f.submits = append(f.submits, snapshot)
	return nil
}

func (f *fakeBackend) CancelExam(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	if f.cancelErr != nil {
		return f.cancelErr
	}
	return nil
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

func (f *fakeBackend) lastSubmit() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.submits) == 0 {
		return nil
	}
	return f.submits[len(f.submits)-1]
}

func newTestSession(t *testing.T, questions int, duration time.Duration, backend Backend) *Session {
	t.Helper()
	pool := makePool(questions, model.SubjectMathematics)
	sess, err := NewSession("token", "exam-1", pool, duration, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func TestNewSessionInitialState(t *testing.T) {
	sess := newTestSession(t, 5, time.Hour, &fakeBackend{})

	view := sess.Snapshot()
	if view.Position != 0 {
		t.Errorf("position = %d, want 0", view.Position)
	}
	if view.RemainingSeconds != 3600 {
		t.Errorf("remaining = %d, want 3600", view.RemainingSeconds)
	}
	if view.State != StateActive {
		t.Errorf("state = %s, want %s", view.State, StateActive)
	}
	if view.AnsweredCount != 0 {
		t.Errorf("answered count = %d, want 0", view.AnsweredCount)
	}
	for _, ref := range view.Overview {
		if ref.Status != StatusNotAttempted {
			t.Errorf("question %s starts as %s, want %s", ref.ID, ref.Status, StatusNotAttempted)
		}
	}
}

func TestNewSessionEmptyPool(t *testing.T) {
	_, err := NewSession("token", "exam-1", nil, time.Hour, &fakeBackend{}, zerolog.Nop())
	if !errors.Is(err, ErrNoActiveExam) {
		t.Fatalf("err = %v, want ErrNoActiveExam", err)
	}
}

func TestStatusNeverDowngrades(t *testing.T) {
	sess := newTestSession(t, 3, time.Hour, &fakeBackend{})
	first := sess.Snapshot().Question

	if err := sess.Answer(first.ID, "A"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got := sess.StatusOf(first.ID); got != StatusAnswered {
		t.Fatalf("status = %s, want %s", got, StatusAnswered)
	}

	// Leaving an answered question must not mark it skipped.
	if err := sess.Navigate(DirectionNext); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got := sess.StatusOf(first.ID); got != StatusAnswered {
		t.Errorf("status after leaving = %s, want %s", got, StatusAnswered)
	}

	// Leaving an untouched question marks it skipped.
	second := sess.Snapshot().Question
	if err := sess.Navigate(DirectionNext); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got := sess.StatusOf(second.ID); got != StatusSkipped {
		t.Errorf("untouched question = %s, want %s", got, StatusSkipped)
	}

	// Answering a skipped question upgrades it.
	if err := sess.Answer(second.ID, "B"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got := sess.StatusOf(second.ID); got != StatusAnswered {
		t.Errorf("skipped then answered = %s, want %s", got, StatusAnswered)
	}
}

func TestAnswerUnknownQuestion(t *testing.T) {
	sess := newTestSession(t, 3, time.Hour, &fakeBackend{})
	if err := sess.Answer("no-such-id", "A"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("err = %v, want ErrUnknownQuestion", err)
	}
}

func TestNavigateClampsAtBothEnds(t *testing.T) {
	sess := newTestSession(t, 3, time.Hour, &fakeBackend{})

	if err := sess.Navigate(DirectionPrev); err != nil {
		t.Fatalf("Navigate prev at start: %v", err)
	}
	if pos := sess.Snapshot().Position; pos != 0 {
		t.Errorf("position after prev at start = %d, want 0", pos)
	}

	for i := 0; i < 10; i++ {
		if err := sess.Navigate(DirectionNext); err != nil {
			t.Fatalf("Navigate next: %v", err)
		}
	}
	if pos := sess.Snapshot().Position; pos != 2 {
		t.Errorf("position after next past end = %d, want 2", pos)
	}
}

func TestJumpToBounds(t *testing.T) {
	sess := newTestSession(t, 5, time.Hour, &fakeBackend{})

	if err := sess.JumpTo(4); err != nil {
		t.Fatalf("JumpTo(4): %v", err)
	}
	if pos := sess.Snapshot().Position; pos != 4 {
		t.Errorf("position = %d, want 4", pos)
	}

	for _, bad := range []int{-1, 5, 100} {
		if err := sess.JumpTo(bad); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("JumpTo(%d) err = %v, want ErrOutOfRange", bad, err)
		}
	}

	// Jumping away never marks the left question skipped.
	if err := sess.JumpTo(0); err != nil {
		t.Fatalf("JumpTo(0): %v", err)
	}
	fifth := sess.Snapshot().Overview[4]
	if fifth.Status != StatusNotAttempted {
		t.Errorf("status after jump away = %s, want %s", fifth.Status, StatusNotAttempted)
	}
}

func TestSubmitHappyPath(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, time.Hour, backend)

	for _, ref := range sess.Snapshot().Overview {
		if err := sess.Answer(ref.ID, "A"); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}

	if err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := sess.CurrentState(); got != StateSubmitted {
		t.Errorf("state = %s, want %s", got, StateSubmitted)
	}
	if n := backend.submitCount(); n != 1 {
		t.Errorf("backend received %d submissions, want 1", n)
	}
	if len(backend.submits[0]) != 3 {
		t.Errorf("submitted %d answers, want 3", len(backend.submits[0]))
	}

	// Everything after a terminal state is refused.
	if err := sess.Answer(sess.Snapshot().Question.ID, "B"); !errors.Is(err, ErrFinished) {
		t.Errorf("Answer after submit err = %v, want ErrFinished", err)
	}
	if err := sess.Submit(context.Background()); !errors.Is(err, ErrFinished) {
		t.Errorf("second Submit err = %v, want ErrFinished", err)
	}
}

func TestSubmitFailurePreservesAnswers(t *testing.T) {
	backend := &fakeBackend{submitErr: errors.New("backend down")}
	sess := newTestSession(t, 3, time.Hour, backend)

	q := sess.Snapshot().Question
	if err := sess.Answer(q.ID, "C"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if err := sess.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded, want error")
	}
	if got := sess.CurrentState(); got != StateActive {
		t.Errorf("state after failed submit = %s, want %s", got, StateActive)
	}
	if got := sess.Answers()[q.ID]; got != "C" {
		t.Errorf("answer lost after failed submit: %q", got)
	}

	// Retry succeeds once the backend recovers.
	backend.mu.Lock()
	backend.submitErr = nil
	backend.mu.Unlock()
	if err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if got := sess.CurrentState(); got != StateSubmitted {
		t.Errorf("state after retry = %s, want %s", got, StateSubmitted)
	}
}

func TestTimerExpiryAutoSubmitsOnce(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, 2*time.Second, backend)

	q := sess.Snapshot().Question
	if err := sess.Answer(q.ID, "A"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go sess.Run(ctx)

	deadline := time.After(4 * time.Second)
	for sess.CurrentState() != StateSubmitted {
		select {
		case <-deadline:
			t.Fatalf("session not submitted after expiry; state=%s remaining=%d", sess.CurrentState(), sess.Remaining())
		case <-time.After(50 * time.Millisecond):
		}
	}

	if n := backend.submitCount(); n != 1 {
		t.Errorf("backend received %d submissions, want exactly 1", n)
	}
	if got := len(backend.submits[0]); got != 1 {
		t.Errorf("auto-submit carried %d answers, want 1", got)
	}
	if r := sess.Remaining(); r != 0 {
		t.Errorf("remaining = %d, want 0", r)
	}
}

func TestTickEmitsMonotonicCountdown(t *testing.T) {
	sess := newTestSession(t, 2, 5*time.Second, &fakeBackend{})

	prev := sess.Remaining()
	for i := 0; i < 3; i++ {
		sess.tick()
		cur := sess.Remaining()
		if cur != prev-1 {
			t.Fatalf("remaining went %d -> %d, want monotonic 1 Hz decrement", prev, cur)
		}
		prev = cur
	}

	events := sess.Events()
	for i := 0; i < 3; i++ {
		select {
		case ev := <-events:
			if ev.Type != EventTick {
				t.Fatalf("event %d type = %s, want %s", i, ev.Type, EventTick)
			}
		default:
			t.Fatalf("expected 3 buffered tick events, got %d", i)
		}
	}
}

func TestCancelReachesTerminalState(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, time.Hour, backend)

	if err := sess.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := sess.CurrentState(); got != StateCancelled {
		t.Errorf("state = %s, want %s", got, StateCancelled)
	}
	if backend.cancels != 1 {
		t.Errorf("backend received %d cancels, want 1", backend.cancels)
	}
	if err := sess.Cancel(context.Background()); !errors.Is(err, ErrFinished) {
		t.Errorf("second Cancel err = %v, want ErrFinished", err)
	}
}

func TestExitGuardEmptyCancels(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, time.Hour, backend)

	state, err := sess.RequestExit()
	if err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	if state != StateExitPromptEmpty {
		t.Fatalf("prompt = %s, want %s", state, StateExitPromptEmpty)
	}

	final, err := sess.ConfirmExit(context.Background())
	if err != nil {
		t.Fatalf("ConfirmExit: %v", err)
	}
	if final != StateCancelled {
		t.Errorf("final state = %s, want %s", final, StateCancelled)
	}
	if backend.cancels != 1 || backend.submitCount() != 0 {
		t.Errorf("cancels=%d submits=%d, want 1 and 0", backend.cancels, backend.submitCount())
	}
}

func TestExitGuardWithAnswersSubmits(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, time.Hour, backend)

	if err := sess.Answer(sess.Snapshot().Question.ID, "A"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	state, err := sess.RequestExit()
	if err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	if state != StateExitPromptAnswers {
		t.Fatalf("prompt = %s, want %s", state, StateExitPromptAnswers)
	}

	final, err := sess.ConfirmExit(context.Background())
	if err != nil {
		t.Fatalf("ConfirmExit: %v", err)
	}
	if final != StateSubmitted {
		t.Errorf("final state = %s, want %s", final, StateSubmitted)
	}
	if backend.submitCount() != 1 || backend.cancels != 0 {
		t.Errorf("submits=%d cancels=%d, want 1 and 0", backend.submitCount(), backend.cancels)
	}
}

func TestExitGuardAnswerAfterPromptSubmits(t *testing.T) {
	backend := &fakeBackend{}
	sess := newTestSession(t, 3, time.Hour, backend)

	state, err := sess.RequestExit()
	if err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	if state != StateExitPromptEmpty {
		t.Fatalf("prompt = %s, want %s", state, StateExitPromptEmpty)
	}

	// An answer recorded while the prompt is up must not be thrown away
	// by the cancel path.
	if err := sess.Answer(sess.Snapshot().Question.ID, "B"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	final, err := sess.ConfirmExit(context.Background())
	if err != nil {
		t.Fatalf("ConfirmExit: %v", err)
	}
	if final != StateSubmitted {
		t.Errorf("final state = %s, want %s", final, StateSubmitted)
	}
	if backend.submitCount() != 1 || backend.cancels != 0 {
		t.Errorf("submits=%d cancels=%d, want 1 and 0", backend.submitCount(), backend.cancels)
	}
	if got := backend.lastSubmit()[sess.Snapshot().Question.ID]; got != "B" {
		t.Errorf("submitted answer = %q, want %q", got, "B")
	}
}

func TestExitGuardResume(t *testing.T) {
	sess := newTestSession(t, 3, time.Hour, &fakeBackend{})

	if err := sess.Resume(); !errors.Is(err, ErrNotPrompted) {
		t.Fatalf("Resume without prompt err = %v, want ErrNotPrompted", err)
	}

	if _, err := sess.RequestExit(); err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	if err := sess.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := sess.CurrentState(); got != StateActive {
		t.Errorf("state after resume = %s, want %s", got, StateActive)
	}

	if _, err := sess.ConfirmExit(context.Background()); !errors.Is(err, ErrNotPrompted) {
		t.Errorf("ConfirmExit after resume err = %v, want ErrNotPrompted", err)
	}
}

func TestRequestExitIdempotent(t *testing.T) {
	sess := newTestSession(t, 3, time.Hour, &fakeBackend{})

	first, err := sess.RequestExit()
	if err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	second, err := sess.RequestExit()
	if err != nil {
		t.Fatalf("second RequestExit: %v", err)
	}
	if first != second {
		t.Errorf("repeat prompt changed: %s then %s", first, second)
	}
}

// slowBackend blocks the first submission until released, so a second
// trigger can race it.
type slowBackend struct {
	fakeBackend
	release chan struct{}
	started chan struct{}
}

func (s *slowBackend) SubmitAnswers(ctx context.Context, token, examID string, answers map[string]string) error {
	close(s.started)
	<-s.release
	return s.fakeBackend.SubmitAnswers(ctx, token, examID, answers)
}

func TestSubmitSingleFlight(t *testing.T) {
	backend := &slowBackend{release: make(chan struct{}), started: make(chan struct{})}
	sess := newTestSession(t, 3, time.Hour, backend)

	if err := sess.Answer(sess.Snapshot().Question.ID, "A"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- sess.Submit(context.Background()) }()
	<-backend.started

	if err := sess.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("concurrent Submit err = %v, want ErrSubmitInFlight", err)
	}
	if err := sess.Cancel(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Cancel during submit err = %v, want ErrSubmitInFlight", err)
	}

	close(backend.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if n := backend.submitCount(); n != 1 {
		t.Errorf("backend received %d submissions, want 1", n)
	}
}
