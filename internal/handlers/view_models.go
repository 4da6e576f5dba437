package handlers

import (
	"time"

	"linguatrail/internal/models"
	"linguatrail/internal/service"
)

// userView is the learner-facing shape of a user. Password hashes and
// OAuth identifiers never leave the server
type userView struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	Role           string     `json:"role"`
	XP             int        `json:"xp"`
	Diamonds       int        `json:"diamonds"`
	Lives          int        `json:"lives"`
	MaxLives       int        `json:"maxLives"`
	NextLifeAt     *time.Time `json:"nextLifeAt,omitempty"`
	CurrentLevelID *int64     `json:"currentLevelId,omitempty"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		XP:             u.XP,
		Diamonds:       u.Diamonds,
		Lives:          u.Lives,
		MaxLives:       service.MaxLives,
		NextLifeAt:     u.NextLifeAt,
		CurrentLevelID: u.CurrentLevelID,
	}
}

// choiceView is a multiple-choice option with the correctness flag
// stripped. Grading happens server-side only
type choiceView struct {
	Text string `json:"text"`
}

// exerciseView is the learner-facing shape of an exercise
type exerciseView struct {
	ID       int64        `json:"id"`
	LevelID  int64        `json:"levelId"`
	Question string       `json:"question"`
	Type     string       `json:"type"`
	Options  []choiceView `json:"options,omitempty"`
	AudioURL string       `json:"audioUrl,omitempty"`
}

func toExerciseView(e *models.Exercise) *exerciseView {
	if e == nil {
		return nil
	}
	view := &exerciseView{
		ID:       e.ID,
		LevelID:  e.LevelID,
		Question: e.Question,
		Type:     string(e.Type),
	}
	switch c := e.Content.(type) {
	case models.MultipleChoice:
		for _, opt := range c.Options {
			view.Options = append(view.Options, choiceView{Text: opt.Text})
		}
	case models.AudioPrompt:
		view.AudioURL = c.AudioURL
	}
	return view
}

// adminExerciseView includes the answer material, for the admin panel
type adminExerciseView struct {
	ID            int64                 `json:"id"`
	LevelID       int64                 `json:"levelId"`
	Question      string                `json:"question"`
	Type          string                `json:"type"`
	Options       []models.ChoiceOption `json:"options,omitempty"`
	CorrectAnswer string                `json:"correctAnswer,omitempty"`
	AudioURL      string                `json:"audioUrl,omitempty"`
}

func toAdminExerciseView(e *models.Exercise) adminExerciseView {
	view := adminExerciseView{
		ID:       e.ID,
		LevelID:  e.LevelID,
		Question: e.Question,
		Type:     string(e.Type),
	}
	switch c := e.Content.(type) {
	case models.MultipleChoice:
		view.Options = c.Options
	case models.FillBlank:
		view.CorrectAnswer = c.CorrectAnswer
	case models.AudioPrompt:
		view.CorrectAnswer = c.CorrectAnswer
		view.AudioURL = c.AudioURL
	}
	return view
}

// trailView is the per-user projection of a trail with its levels
type trailView struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Theme    string      `json:"theme"`
	Position int         `json:"position"`
	Status   string      `json:"status"`
	Levels   []levelView `json:"levels"`
}

type levelView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	XP        int    `json:"xp"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

func toTrailViews(views []models.TrailView) []trailView {
	out := make([]trailView, 0, len(views))
	for _, tv := range views {
		t := trailView{
			ID:       tv.ID,
			Name:     tv.Name,
			Theme:    tv.Theme,
			Position: tv.Position,
			Status:   string(tv.Status),
			Levels:   make([]levelView, 0, len(tv.Levels)),
		}
		for _, lv := range tv.Levels {
			t.Levels = append(t.Levels, levelView{
				ID:        lv.ID,
				Name:      lv.Name,
				Color:     string(lv.Color),
				XP:        lv.XP,
				Position:  lv.Position,
				Completed: lv.Completed,
				Current:   lv.Current,
			})
		}
		out = append(out, t)
	}
	return out
}

// transactionView is the API shape of a purchase record
type transactionView struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func toTransactionViews(txs []models.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionView{
			ID:            tx.ID,
			UserID:        tx.UserID,
			Amount:        tx.Amount,
			Description:   tx.Description,
			PaymentMethod: string(tx.PaymentMethod),
			Status:        string(tx.Status),
			CreatedAt:     tx.CreatedAt,
			CompletedAt:   tx.CompletedAt,
		})
	}
	return out
}
