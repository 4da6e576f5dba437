package service

import (
	"errors"
	"testing"
	"time"

	"linguatrail/internal/models"
)

func newTestEngine(user *models.User) (*ProgressionService, *memContent, *memProgress, *memUsers) {
	content := twoTrailFixture()
	progress := newMemProgress(content)
	users := newMemUsers(user)
	engine := NewProgressionService(content, progress, users, NewLifePolicy())
	return engine, content, progress, users
}

func freshLearner() *models.User {
	return &models.User{ID: 1, Username: "ade", Role: models.RoleUser, Lives: MaxLives}
}

func TestStartOrResumeLevel(t *testing.T) {
	t.Run("first level of first trail is always open", func(t *testing.T) {
		engine, _, progress, users := newTestEngine(freshLearner())

		session, err := engine.StartOrResumeLevel(1, 10)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if session.Exercise == nil || session.Exercise.ID != 100 {
			t.Fatalf("Expected first exercise 100, got %+v", session.Exercise)
		}
		if session.AttemptedCount != 0 || session.TotalCount != 2 {
			t.Errorf("Expected 0/2 progress, got %d/%d", session.AttemptedCount, session.TotalCount)
		}

		ul, _ := progress.GetUserLevel(1, 10)
		if ul == nil {
			t.Fatal("Expected progress row to be created")
		}
		user, _ := users.GetUserByID(1)
		if user.CurrentLevelID == nil || *user.CurrentLevelID != 10 {
			t.Errorf("Expected current level 10, got %v", user.CurrentLevelID)
		}
	})

	t.Run("locked level rejects access", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(freshLearner())

		if _, err := engine.StartOrResumeLevel(1, 11); !errors.Is(err, ErrLevelLocked) {
			t.Errorf("Expected ErrLevelLocked, got %v", err)
		}
	})

	t.Run("first level of later trail needs previous trail finished", func(t *testing.T) {
		engine, _, progress, _ := newTestEngine(freshLearner())

		if _, err := engine.StartOrResumeLevel(1, 20); !errors.Is(err, ErrLevelLocked) {
			t.Fatalf("Expected ErrLevelLocked, got %v", err)
		}

		// Completing the last level of trail 1 unlocks trail 2's first level
		progress.CreateUserLevel(1, 11)
		progress.MarkLevelCompleted(1, 11, time.Now())

		if _, err := engine.StartOrResumeLevel(1, 20); err != nil {
			t.Errorf("Expected trail 2 first level to open, got %v", err)
		}
	})

	t.Run("zero lives blocks access", func(t *testing.T) {
		user := freshLearner()
		user.Lives = 0
		next := time.Now().Add(LifeRegenInterval)
		user.NextLifeAt = &next
		engine, _, _, _ := newTestEngine(user)

		if _, err := engine.StartOrResumeLevel(1, 10); !errors.Is(err, ErrOutOfLives) {
			t.Errorf("Expected ErrOutOfLives, got %v", err)
		}
	})

	t.Run("resume skips attempted exercises", func(t *testing.T) {
		engine, _, progress, _ := newTestEngine(freshLearner())
		progress.CreateUserLevel(1, 10)
		progress.AppendAttempt(1, 100, true)

		session, err := engine.StartOrResumeLevel(1, 10)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if session.Exercise == nil || session.Exercise.ID != 101 {
			t.Fatalf("Expected exercise 101, got %+v", session.Exercise)
		}
		if session.AttemptedCount != 1 {
			t.Errorf("Expected 1 attempted, got %d", session.AttemptedCount)
		}
	})

	t.Run("replaying a completed level reports done", func(t *testing.T) {
		engine, _, progress, _ := newTestEngine(freshLearner())
		progress.CreateUserLevel(1, 10)
		progress.MarkLevelCompleted(1, 10, time.Now())
		progress.AppendAttempt(1, 100, true)
		progress.AppendAttempt(1, 101, true)

		if _, err := engine.StartOrResumeLevel(1, 10); !errors.Is(err, ErrAllExercisesDone) {
			t.Errorf("Expected ErrAllExercisesDone, got %v", err)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(freshLearner())
		if _, err := engine.StartOrResumeLevel(1, 999); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSubmitAnswer(t *testing.T) {
	t.Run("correct answer advances to next exercise", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(freshLearner())
		engine.StartOrResumeLevel(1, 10)

		result, err := engine.SubmitAnswer(1, 10, 100, "yes")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !result.Correct {
			t.Error("Expected answer graded correct")
		}
		if result.LevelCompleted {
			t.Error("Expected level not yet completed")
		}
		if result.NextExercise == nil || result.NextExercise.ID != 101 {
			t.Fatalf("Expected next exercise 101, got %+v", result.NextExercise)
		}
		if result.AttemptedCount != 1 || result.TotalCount != 2 {
			t.Errorf("Expected 1/2 progress, got %d/%d", result.AttemptedCount, result.TotalCount)
		}
		if result.LivesRemaining != MaxLives {
			t.Errorf("Expected lives untouched at %d, got %d", MaxLives, result.LivesRemaining)
		}
	})

	t.Run("final exercise completes the level and grants rewards", func(t *testing.T) {
		engine, _, progress, users := newTestEngine(freshLearner())
		engine.StartOrResumeLevel(1, 10)

		engine.SubmitAnswer(1, 10, 100, "yes")
		result, err := engine.SubmitAnswer(1, 10, 101, "yes")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !result.LevelCompleted {
			t.Fatal("Expected level completed")
		}
		if result.XPEarned != 10 {
			t.Errorf("Expected 10 XP earned, got %d", result.XPEarned)
		}
		if result.DiamondsEarned != 1 {
			t.Errorf("Expected 1 diamond for AMARELO, got %d", result.DiamondsEarned)
		}

		user, _ := users.GetUserByID(1)
		if user.XP != 10 || user.Diamonds != 1 {
			t.Errorf("Expected balances 10 XP / 1 diamond, got %d / %d", user.XP, user.Diamonds)
		}

		// Next level is pre-staged as current with a progress row
		if user.CurrentLevelID == nil || *user.CurrentLevelID != 11 {
			t.Errorf("Expected current level advanced to 11, got %v", user.CurrentLevelID)
		}
		if ul, _ := progress.GetUserLevel(1, 11); ul == nil {
			t.Error("Expected progress row for the next level")
		}

		// The pre-staged level now passes the unlock check
		if _, err := engine.StartOrResumeLevel(1, 11); err != nil {
			t.Errorf("Expected next level to open, got %v", err)
		}
	})

	t.Run("completion rewards are granted only once", func(t *testing.T) {
		engine, _, _, users := newTestEngine(freshLearner())
		engine.StartOrResumeLevel(1, 10)
		engine.SubmitAnswer(1, 10, 100, "yes")
		engine.SubmitAnswer(1, 10, 101, "yes")

		result, err := engine.SubmitAnswer(1, 10, 101, "yes")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !result.LevelCompleted {
			t.Error("Expected completed level to report completion")
		}
		if result.XPEarned != 0 || result.DiamondsEarned != 0 {
			t.Errorf("Expected no repeat rewards, got %d XP / %d diamonds", result.XPEarned, result.DiamondsEarned)
		}

		user, _ := users.GetUserByID(1)
		if user.XP != 10 || user.Diamonds != 1 {
			t.Errorf("Expected balances unchanged at 10 / 1, got %d / %d", user.XP, user.Diamonds)
		}
	})

	t.Run("wrong answer costs a life but still records and advances", func(t *testing.T) {
		engine, _, progress, users := newTestEngine(freshLearner())
		engine.StartOrResumeLevel(1, 10)

		result, err := engine.SubmitAnswer(1, 10, 100, "no")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Correct {
			t.Error("Expected answer graded wrong")
		}
		if result.LivesRemaining != MaxLives-1 {
			t.Errorf("Expected %d lives, got %d", MaxLives-1, result.LivesRemaining)
		}

		user, _ := users.GetUserByID(1)
		if user.NextLifeAt == nil {
			t.Error("Expected regen timer started")
		}

		attempts, _ := progress.GetLevelAttempts(1, 10)
		if len(attempts) != 1 || attempts[0].Correct {
			t.Fatalf("Expected one incorrect attempt recorded, got %+v", attempts)
		}
		// Wrong attempts still count as seen for sequencing
		if result.NextExercise == nil || result.NextExercise.ID != 101 {
			t.Errorf("Expected next exercise 101, got %+v", result.NextExercise)
		}
	})

	t.Run("losing the last life flags out of lives", func(t *testing.T) {
		user := freshLearner()
		user.Lives = 1
		engine, _, _, _ := newTestEngine(user)
		engine.StartOrResumeLevel(1, 10)

		result, err := engine.SubmitAnswer(1, 10, 100, "no")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !result.OutOfLives {
			t.Error("Expected out-of-lives flag")
		}
		if result.LivesRemaining != 0 {
			t.Errorf("Expected 0 lives, got %d", result.LivesRemaining)
		}
	})

	t.Run("zero lives records the attempt but rejects the submission", func(t *testing.T) {
		user := freshLearner()
		user.Lives = 0
		next := time.Now().Add(LifeRegenInterval)
		user.NextLifeAt = &next
		engine, _, progress, users := newTestEngine(user)
		progress.CreateUserLevel(1, 10)

		_, err := engine.SubmitAnswer(1, 10, 100, "yes")
		if !errors.Is(err, ErrOutOfLives) {
			t.Fatalf("Expected ErrOutOfLives, got %v", err)
		}

		attempts, _ := progress.GetLevelAttempts(1, 10)
		if len(attempts) != 1 {
			t.Fatalf("Expected attempt appended even when out of lives, got %d", len(attempts))
		}
		got, _ := users.GetUserByID(1)
		if got.Lives != 0 {
			t.Errorf("Expected lives floored at 0, got %d", got.Lives)
		}
	})

	t.Run("exercise from another level is rejected", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(freshLearner())
		engine.StartOrResumeLevel(1, 10)

		if _, err := engine.SubmitAnswer(1, 10, 102, "yes"); !errors.Is(err, ErrExerciseMismatch) {
			t.Errorf("Expected ErrExerciseMismatch, got %v", err)
		}
	})

	t.Run("submitting to a locked level is rejected", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(freshLearner())

		if _, err := engine.SubmitAnswer(1, 11, 102, "yes"); !errors.Is(err, ErrLevelLocked) {
			t.Errorf("Expected ErrLevelLocked, got %v", err)
		}
	})

	t.Run("lives regenerate before grading", func(t *testing.T) {
		user := freshLearner()
		user.Lives = 0
		past := time.Now().Add(-time.Minute)
		user.NextLifeAt = &past
		engine, _, _, _ := newTestEngine(user)
		engine.StartOrResumeLevel(1, 10)

		result, err := engine.SubmitAnswer(1, 10, 100, "yes")
		if err != nil {
			t.Fatalf("Expected regenerated life to allow the submission, got %v", err)
		}
		if !result.Correct {
			t.Error("Expected answer graded correct")
		}
	})
}

func TestCompletionOnResume(t *testing.T) {
	// All exercises attempted but completion never settled (e.g. a crash
	// between the attempt append and the completion write). The next
	// access settles it
	engine, _, progress, users := newTestEngine(freshLearner())
	progress.CreateUserLevel(1, 10)
	progress.AppendAttempt(1, 100, true)
	progress.AppendAttempt(1, 101, false)

	session, err := engine.StartOrResumeLevel(1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !session.Completed {
		t.Fatal("Expected completion to settle on resume")
	}
	if session.XPEarned != 10 || session.DiamondsEarned != 1 {
		t.Errorf("Expected 10 XP / 1 diamond, got %d / %d", session.XPEarned, session.DiamondsEarned)
	}

	user, _ := users.GetUserByID(1)
	if user.XP != 10 {
		t.Errorf("Expected 10 XP on balance, got %d", user.XP)
	}
	ul, _ := progress.GetUserLevel(1, 10)
	if !ul.Completed || ul.CompletedAt == nil {
		t.Error("Expected progress row marked completed with timestamp")
	}
}
