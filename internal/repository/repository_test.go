package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewFlightRepository(t *testing.T) {
	repo := NewFlightRepository(&pgxpool.Pool{})
	assert.NotNil(t, repo)
}

func TestNewSequenceRepository(t *testing.T) {
	repo := NewSequenceRepository(&pgxpool.Pool{})
	assert.NotNil(t, repo)
}

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(&pgxpool.Pool{})
	assert.NotNil(t, repo)
}
