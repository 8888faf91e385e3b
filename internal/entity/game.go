package entity

import (
	"fmt"
	"maps"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type GameStatus string

const (
	StatusPending    GameStatus = "pending"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
	StatusAbandoned  GameStatus = "abandoned"
)

func ParseGameStatus(s string) (GameStatus, error) {
	switch status := GameStatus(s); status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusAbandoned:
		return status, nil
	default:
		return "", fmt.Errorf("unknown game status %q", s)
	}
}

type GameMode string

const (
	ModePVP      GameMode = "pvp"
	ModeAIEasy   GameMode = "ai_easy"
	ModeAIMedium GameMode = "ai_medium"
	ModeAIHard   GameMode = "ai_hard"
)

func ParseGameMode(s string) (GameMode, error) {
	switch mode := GameMode(s); mode {
	case ModePVP, ModeAIEasy, ModeAIMedium, ModeAIHard:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown game mode %q", s)
	}
}

func (that GameMode) IsAI() bool {
	return that == ModeAIEasy || that == ModeAIMedium || that == ModeAIHard
}

type Game struct {
	ID          string         `json:"id"`
	Mode        GameMode       `json:"mode"`
	Status      GameStatus     `json:"status"`
	Board       Board          `json:"board"`
	CurrentTurn Mark           `json:"currentTurn"`
	Winner      Winner         `json:"winner"`
	PlayerX     string         `json:"playerXId,omitempty"`
	PlayerO     string         `json:"playerOId,omitempty"`
	IsPrivate   bool           `json:"isPrivate"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	MoveCount   int            `json:"moveCount"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func NewGame(id string, mode GameMode, now time.Time) *Game {
	return &Game{
		ID:          id,
		Mode:        mode,
		Status:      StatusPending,
		Board:       NewBoard(),
		CurrentTurn: X,
		Winner:      NoWinner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (that *Game) IsPending() bool {
	return that.Status == StatusPending
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// IsTerminal reports a completed or abandoned game; terminal games never change status again.
func (that *Game) IsTerminal() bool {
	return that.Status == StatusCompleted || that.Status == StatusAbandoned
}

// ConfirmPlayable returns ErrGameFinished unless the game accepts moves.
func (that *Game) ConfirmPlayable() error {
	switch {
	case that.IsPending(), that.IsInProgress():
		return nil
	case that.IsTerminal():
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("unknown game status %q", that.Status)
	}
}

func (that *Game) HasPlayer(playerID string) bool {
	return playerID != "" && (that.PlayerX == playerID || that.PlayerO == playerID)
}

// PlayerFor returns the id seated for mark, or "" if the seat is empty.
func (that *Game) PlayerFor(mark Mark) string {
	switch mark {
	case X:
		return that.PlayerX
	case O:
		return that.PlayerO
	default:
		return ""
	}
}

// MarkOf returns the mark played by playerID in this game.
func (that *Game) MarkOf(playerID string) (Mark, bool) {
	switch {
	case playerID == "":
		return Empty, false
	case that.PlayerX == playerID:
		return X, true
	case that.PlayerO == playerID:
		return O, true
	default:
		return Empty, false
	}
}

// Complete moves the game into the completed state with the given outcome.
func (that *Game) Complete(winner Winner, now time.Time) {
	that.Status = StatusCompleted
	that.Winner = winner
	that.CompletedAt = &now
	that.UpdatedAt = now
}

// Clone returns a copy that shares no mutable state with the receiver.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Metadata = maps.Clone(that.Metadata)
	if that.CompletedAt != nil {
		completedAt := *that.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}

// GameFilter selects games by exact status and seated player; zero fields match everything.
type GameFilter struct {
	Status   GameStatus
	PlayerID string
}

func (that GameFilter) Matches(game *Game) bool {
	if that.Status != "" && game.Status != that.Status {
		return false
	}
	if that.PlayerID != "" && !game.HasPlayer(that.PlayerID) {
		return false
	}
	return true
}

// Move is one placement, recorded once and never changed.
type Move struct {
	MoveNumber int       `json:"moveNumber"`
	PlayerID   string    `json:"playerId"`
	Mark       Mark      `json:"mark"`
	Row        int       `json:"row"`
	Column     int       `json:"column"`
	Timestamp  time.Time `json:"timestamp"`
}

// BoardState is the read model returned by board queries and moves.
type BoardState struct {
	GameID      string     `json:"gameId"`
	Board       Board      `json:"board"`
	Winner      Winner     `json:"winner"`
	Status      GameStatus `json:"status"`
	CurrentTurn Mark       `json:"currentTurn"`
	MoveCount   int        `json:"moveCount"`
}

func (that *Game) BoardState() BoardState {
	return BoardState{
		GameID:      that.ID,
		Board:       that.Board,
		Winner:      that.Winner,
		Status:      that.Status,
		CurrentTurn: that.CurrentTurn,
		MoveCount:   that.MoveCount,
	}
}

type CreateGameParams struct {
	Mode       string         `json:"mode"`
	CreatorID  string         `json:"-"`
	OpponentID string         `json:"opponentId,omitempty"`
	IsPrivate  bool           `json:"isPrivate"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type ListGamesParams struct {
	Page     int
	Limit    int
	Status   string
	PlayerID string
}

type GamePage struct {
	Games []*Game `json:"games"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
