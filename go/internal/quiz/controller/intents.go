package controller

import (
	"errors"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/events"
	"github.com/mcdev12/painani/go/internal/quiz/session"
)

// Local input. Each method validates against the local mirror and emits at
// most one intent; state only changes when the server answers.

// OpenQuestion asks the server to open a board cell.
func (c *Controller) OpenQuestion(cat, row int) error {
	if !c.connected {
		return ErrNotConnected
	}
	if c.arb.Phase() != session.PhaseBoard {
		return c.reject("open_question", ErrQuestionOpen)
	}
	key := models.CellKey{Cat: cat, Row: row}
	board := c.arb.State().Board
	if !board.Exists(key) || board.Status(key).Done() || !c.layout.Contains(key) {
		return c.reject("open_question", ErrCellUnavailable)
	}
	return c.emit(events.OpenQuestion{CatIdx: cat, ClueIdx: row})
}

// PressBuzzer sends a buzz for a team that may still answer.
func (c *Controller) PressBuzzer(player int) error {
	if err := c.arb.ValidateBuzz(player); err != nil {
		return c.reject("buzzer_press", err)
	}
	return c.emit(events.BuzzerPress{Player: player})
}

// SelectAnswer records the held team's choice locally.
func (c *Controller) SelectAnswer(idx int) error {
	if err := c.arb.SelectAnswer(idx); err != nil {
		return c.reject("select_answer", err)
	}
	c.render()
	return nil
}

// Submit sends the selected answer once.
func (c *Controller) Submit() error {
	intent, ok, err := c.arb.Submit()
	if errors.Is(err, session.ErrNoSelection) {
		c.status(StatusInfo, MsgSelectFirst)
	}
	if err != nil {
		return c.reject("submit_answer", err)
	}
	if !ok {
		c.logger.Debug().Msg("submission already pending")
		return nil
	}
	c.render()
	return c.emitPending(intent)
}

// ModeratorCorrect judges the held turn as correct.
func (c *Controller) ModeratorCorrect() error {
	player, err := c.arb.Judge()
	if err != nil {
		return c.reject("moderator_correct", err)
	}
	c.render()
	return c.emitPending(events.ModeratorCorrect{Player: player})
}

// ModeratorIncorrect judges the held turn as incorrect.
func (c *Controller) ModeratorIncorrect() error {
	player, err := c.arb.Judge()
	if err != nil {
		return c.reject("moderator_incorrect", err)
	}
	c.render()
	return c.emitPending(events.ModeratorIncorrect{Player: player})
}

// CancelQuestion asks the server to close the open question unanswered.
func (c *Controller) CancelQuestion() error {
	if c.arb.State().Question == nil {
		return c.reject("cancel_question", session.ErrNoQuestion)
	}
	return c.emit(events.CancelQuestion{})
}

// ToggleHideAnswers flips moderator mode. The local flag changes when the
// server echoes hide_answers_toggled.
func (c *Controller) ToggleHideAnswers() error {
	return c.emit(events.ToggleHideAnswers{Hide: !c.arb.State().HideAnswers})
}

// SetHideAnswers requests an explicit moderator mode. It sends nothing when
// the mode is already in effect.
func (c *Controller) SetHideAnswers(hide bool) error {
	if c.arb.State().HideAnswers == hide {
		return nil
	}
	return c.emit(events.ToggleHideAnswers{Hide: hide})
}

// AdjustScore adds delta to a team's score.
func (c *Controller) AdjustScore(player, delta int) error {
	if err := c.arb.ValidateTarget(player); err != nil {
		return c.reject("adjust_score", err)
	}
	return c.emit(events.AdjustScore{Player: player, Delta: delta})
}

// AdjustByQuestionValue adjusts by multiplier times the open question's
// value, or the default value when no question is open.
func (c *Controller) AdjustByQuestionValue(player, multiplier int) error {
	value := models.DefaultQuestionValue
	if q := c.arb.State().Question; q != nil && q.Value > 0 {
		value = q.Value
	}
	return c.AdjustScore(player, value*multiplier)
}

// SetScore overwrites a team's score.
func (c *Controller) SetScore(player, score int) error {
	if err := c.arb.ValidateTarget(player); err != nil {
		return c.reject("set_score", err)
	}
	return c.emit(events.SetScore{Player: player, Score: score})
}

// SetTeamCount asks the server for a new number of teams.
func (c *Controller) SetTeamCount(n int) error {
	if err := c.arb.ValidateTeamCount(n); err != nil {
		return c.reject("set_team_count", err)
	}
	return c.emit(events.SetTeamCount{Count: n})
}

func (c *Controller) reject(action string, err error) error {
	c.logger.Debug().Err(err).Str("action", action).Msg("local input rejected")
	return err
}
