package credential_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teco-project/teco-core-sub000/credential"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, credential.New("", "key").IsEmpty())
	assert.True(t, credential.New("id", "").IsEmpty())
	assert.False(t, credential.New("id", "key").IsEmpty())
}

func TestIsExpiring(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := credential.NewExpiring(credential.New("id", "key"), now.Add(3*time.Minute))

	assert.True(t, exp.IsExpiring(now, 5*time.Minute))
	assert.False(t, exp.IsExpiring(now, 1*time.Minute))
}
