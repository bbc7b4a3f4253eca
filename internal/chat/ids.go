package chat

import "github.com/google/uuid"

// NewSessionID returns a random UUIDv4 string.
func NewSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
