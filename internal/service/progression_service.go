package service

import (
	"fmt"
	"sync"
	"time"

	"linguatrail/internal/models"
)

// ProgressionService is the engine behind level access and answer
// submission: unlocking eligibility, exercise sequencing, attempt
// recording, completion detection and reward grants
type ProgressionService struct {
	content  ContentStore
	progress ProgressStore
	users    UserStore
	lives    *LifePolicy
	now      func() time.Time

	// one lock per user around the read-modify-write in SubmitAnswer,
	// which touches attempt, progress and resource rows together
	locks sync.Map
}

// NewProgressionService creates a new progression service
func NewProgressionService(content ContentStore, progress ProgressStore, users UserStore, lives *LifePolicy) *ProgressionService {
	return &ProgressionService{
		content:  content,
		progress: progress,
		users:    users,
		lives:    lives,
		now:      time.Now,
	}
}

func (s *ProgressionService) lockUser(userID int64) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// LevelSession is what a learner sees when opening a level: the next
// exercise to answer plus progress counters
type LevelSession struct {
	Level          *models.Level
	Exercise       *models.Exercise
	AttemptedCount int
	TotalCount     int
	Completed      bool
	XPEarned       int
	DiamondsEarned int
}

// SubmitResult is the outcome of one answer submission
type SubmitResult struct {
	Correct        bool
	LevelCompleted bool
	XPEarned       int
	DiamondsEarned int
	NextExercise   *models.Exercise
	AttemptedCount int
	TotalCount     int
	OutOfLives     bool
	LivesRemaining int
}

// StartOrResumeLevel opens a level for a user: checks unlock
// eligibility, lazily creates the progress row, points the user's
// current level at it and returns the next unseen exercise.
//
// Returns ErrLevelLocked when the prerequisite level is not completed,
// ErrOutOfLives when the user has no lives, and ErrAllExercisesDone
// when the level is already completed and has nothing left to replay
func (s *ProgressionService) StartOrResumeLevel(userID, levelID int64) (*LevelSession, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.freshUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Lives == 0 {
		return nil, ErrOutOfLives
	}

	level, err := s.content.GetLevel(levelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrNotFound
	}

	eligible, err := s.isLevelUnlocked(userID, level)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrLevelLocked
	}

	userLevel, err := s.progress.GetUserLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	if userLevel == nil {
		userLevel, err = s.progress.CreateUserLevel(userID, levelID)
		if err != nil {
			return nil, err
		}
	}
	if user.CurrentLevelID == nil || *user.CurrentLevelID != levelID {
		if err := s.users.SetCurrentLevel(userID, &levelID); err != nil {
			return nil, err
		}
	}

	next, attempted, total, err := s.nextExercise(userID, levelID)
	if err != nil {
		return nil, err
	}

	session := &LevelSession{
		Level:          level,
		Exercise:       next,
		AttemptedCount: attempted,
		TotalCount:     total,
	}

	if next == nil {
		if userLevel.Completed {
			return nil, ErrAllExercisesDone
		}
		// Every exercise was attempted before this access (e.g. the
		// last submission failed mid-sequence). Settle the completion now
		xp, diamonds, err := s.completeLevel(user, level)
		if err != nil {
			return nil, err
		}
		session.Completed = true
		session.XPEarned = xp
		session.DiamondsEarned = diamonds
	}

	return session, nil
}

// SubmitAnswer records one answer for an exercise of the given level,
// grades it server-side, spends a life on a wrong answer and settles
// level completion when the attempt covers the last unseen exercise.
//
// The attempt row is always appended, even when the user is out of
// lives; in that case ErrOutOfLives is returned and no further state
// changes happen
func (s *ProgressionService) SubmitAnswer(userID, levelID, exerciseID int64, answer string) (*SubmitResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.freshUser(userID)
	if err != nil {
		return nil, err
	}

	level, err := s.content.GetLevel(levelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrNotFound
	}

	exercise, err := s.content.GetExercise(exerciseID)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrNotFound
	}
	if exercise.LevelID != levelID {
		return nil, ErrExerciseMismatch
	}

	correct := exercise.CheckAnswer(answer)

	if user.Lives == 0 {
		// Attempts are an audit log of fact, recorded regardless
		if err := s.progress.AppendAttempt(userID, exerciseID, correct); err != nil {
			return nil, err
		}
		return nil, ErrOutOfLives
	}

	userLevel, err := s.progress.GetUserLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	if userLevel == nil {
		eligible, err := s.isLevelUnlocked(userID, level)
		if err != nil {
			return nil, err
		}
		if !eligible {
			return nil, ErrLevelLocked
		}
		userLevel, err = s.progress.CreateUserLevel(userID, levelID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.progress.AppendAttempt(userID, exerciseID, correct); err != nil {
		return nil, err
	}

	result := &SubmitResult{Correct: correct}

	if !correct {
		s.lives.SpendLife(user)
		if err := s.users.UpdateLives(userID, user.Lives, user.NextLifeAt); err != nil {
			return nil, err
		}
		if user.Lives == 0 {
			result.OutOfLives = true
		}
	}
	result.LivesRemaining = user.Lives

	next, attempted, total, err := s.nextExercise(userID, levelID)
	if err != nil {
		return nil, err
	}
	result.AttemptedCount = attempted
	result.TotalCount = total

	if next == nil {
		if !userLevel.Completed {
			xp, diamonds, err := s.completeLevel(user, level)
			if err != nil {
				return nil, err
			}
			result.XPEarned = xp
			result.DiamondsEarned = diamonds
		}
		result.LevelCompleted = true
		return result, nil
	}

	result.NextExercise = next
	return result, nil
}

// freshUser loads a user and applies lazy life regeneration, persisting
// any regenerated lives before business logic runs
func (s *ProgressionService) freshUser(userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if s.lives.Refresh(user) {
		if err := s.users.UpdateLives(userID, user.Lives, user.NextLifeAt); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// isLevelUnlocked checks the unlock prerequisite: the globally first
// level is always open; any other level requires the previous level in
// its trail (or the last level of the previous trail) to be completed
func (s *ProgressionService) isLevelUnlocked(userID int64, level *models.Level) (bool, error) {
	trailLevels, err := s.content.GetLevelsByTrail(level.TrailID)
	if err != nil {
		return false, err
	}

	var prev *models.Level
	for i := range trailLevels {
		if trailLevels[i].ID == level.ID {
			if i > 0 {
				prev = &trailLevels[i-1]
			}
			break
		}
	}

	if prev == nil {
		// First level of its trail: open when the trail itself is the
		// first, otherwise gated on the previous trail's last level
		trails, err := s.content.GetTrails()
		if err != nil {
			return false, err
		}
		var prevTrail *models.Trail
		for i := range trails {
			if trails[i].ID == level.TrailID {
				if i == 0 {
					return true, nil
				}
				prevTrail = &trails[i-1]
				break
			}
		}
		if prevTrail == nil {
			return false, fmt.Errorf("level %d belongs to unknown trail %d", level.ID, level.TrailID)
		}

		prevTrailLevels, err := s.content.GetLevelsByTrail(prevTrail.ID)
		if err != nil {
			return false, err
		}
		if len(prevTrailLevels) == 0 {
			return false, nil
		}
		prev = &prevTrailLevels[len(prevTrailLevels)-1]
	}

	progress, err := s.progress.GetUserLevel(userID, prev.ID)
	if err != nil {
		return false, err
	}
	return progress != nil && progress.Completed, nil
}

// nextExercise returns the first exercise of the level, in delivery
// order, that the user has never attempted. A repeat attempt does not
// reset the sequence: seen means one or more attempt rows exist
func (s *ProgressionService) nextExercise(userID, levelID int64) (next *models.Exercise, attempted, total int, err error) {
	exercises, err := s.content.GetExercisesByLevel(levelID)
	if err != nil {
		return nil, 0, 0, err
	}

	attempts, err := s.progress.GetLevelAttempts(userID, levelID)
	if err != nil {
		return nil, 0, 0, err
	}

	seen := make(map[int64]bool, len(attempts))
	for _, a := range attempts {
		seen[a.ExerciseID] = true
	}

	for i := range exercises {
		if seen[exercises[i].ID] {
			attempted++
			continue
		}
		if next == nil {
			next = &exercises[i]
		}
	}

	return next, attempted, len(exercises), nil
}

// completeLevel settles a level completion: flags the progress row,
// grants the level's XP and the tier's diamond reward, and pre-stages
// the next level as the user's current one. The following level still
// passes through the unlock check on first access
func (s *ProgressionService) completeLevel(user *models.User, level *models.Level) (xp, diamonds int, err error) {
	if err := s.progress.MarkLevelCompleted(user.ID, level.ID, s.now()); err != nil {
		return 0, 0, err
	}

	xp = level.XP
	diamonds = level.Color.DiamondReward()

	if err := s.users.AddXP(user.ID, xp); err != nil {
		return 0, 0, err
	}
	if err := s.users.AddDiamonds(user.ID, diamonds); err != nil {
		return 0, 0, err
	}

	next, err := s.findNextLevel(level)
	if err != nil {
		return 0, 0, err
	}
	if next == nil {
		// Last level of the last trail; nothing left to point at
		return xp, diamonds, s.users.SetCurrentLevel(user.ID, nil)
	}

	existing, err := s.progress.GetUserLevel(user.ID, next.ID)
	if err != nil {
		return 0, 0, err
	}
	if existing == nil {
		if _, err := s.progress.CreateUserLevel(user.ID, next.ID); err != nil {
			return 0, 0, err
		}
	}
	return xp, diamonds, s.users.SetCurrentLevel(user.ID, &next.ID)
}

// findNextLevel locates the level after the given one: the next by
// position within the same trail, else the first level of the next trail
func (s *ProgressionService) findNextLevel(level *models.Level) (*models.Level, error) {
	trailLevels, err := s.content.GetLevelsByTrail(level.TrailID)
	if err != nil {
		return nil, err
	}
	for i := range trailLevels {
		if trailLevels[i].ID == level.ID && i+1 < len(trailLevels) {
			return &trailLevels[i+1], nil
		}
	}

	trails, err := s.content.GetTrails()
	if err != nil {
		return nil, err
	}
	for i := range trails {
		if trails[i].ID == level.TrailID && i+1 < len(trails) {
			nextTrailLevels, err := s.content.GetLevelsByTrail(trails[i+1].ID)
			if err != nil {
				return nil, err
			}
			if len(nextTrailLevels) > 0 {
				return &nextTrailLevels[0], nil
			}
			return nil, nil
		}
	}
	return nil, nil
}
