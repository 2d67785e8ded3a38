package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/relay"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRelay struct {
	got []*models.ContactMessage
	err error
}

func (r *recordingRelay) Relay(_ context.Context, msg *models.ContactMessage) error {
	r.got = append(r.got, msg)
	return r.err
}

func TestContactSubmit_StoresAndRelays(t *testing.T) {
	rr := &recordingRelay{}
	s := NewContactService(repomanager.NewMemoryRepositoryManager(), rr, logging.Nop{})
	sender := &models.User{ID: uuid.NewString()}

	msg, err := s.Submit(context.Background(), sender, ContactInput{Name: " Uma ", Email: "UMA@x.io", Message: "hello"})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, sender.ID, msg.UserID)
	assert.Equal(t, "Uma", msg.Name)
	assert.Equal(t, "uma@x.io", msg.Email)
	require.Len(t, rr.got, 1)
	assert.Equal(t, msg.ID, rr.got[0].ID)
}

func TestContactSubmit_RelayFailureStillSucceeds(t *testing.T) {
	rr := &recordingRelay{err: errors.New("telegram down")}
	s := NewContactService(repomanager.NewMemoryRepositoryManager(), rr, logging.Nop{})

	_, err := s.Submit(context.Background(), &models.User{ID: uuid.NewString()}, ContactInput{Name: "Uma", Email: "u@x", Message: "hi"})
	assert.NoError(t, err)
}

func TestContactSubmit_Validation(t *testing.T) {
	s := NewContactService(repomanager.NewMemoryRepositoryManager(), relay.Noop{}, logging.Nop{})
	sender := &models.User{ID: uuid.NewString()}

	for _, in := range []ContactInput{
		{Email: "u@x", Message: "hi"},
		{Name: "Uma", Message: "hi"},
		{Name: "Uma", Email: "u@x", Message: "   "},
		{Name: "Uma", Email: "u@x", Message: strings.Repeat("a", 5001)},
	} {
		_, err := s.Submit(context.Background(), sender, in)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}
