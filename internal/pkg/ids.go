package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	gameIDPrefix   = "game-"
	playerIDPrefix = "player-"
)

// GenerateGameID - generates a new unique game id.
func GenerateGameID() (string, error) {
	return generateID(gameIDPrefix)
}

// GeneratePlayerID - generates a new unique player id.
func GeneratePlayerID() (string, error) {
	return generateID(playerIDPrefix)
}

func generateID(prefix string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}

	return prefix + id.String(), nil
}
