package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/relay"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
)

const maxContactMessageLength = 5000

// ContactInput is the contact form.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// ContactService stores contact messages and relays them to the operators.
type ContactService struct {
	repomanager repomanager.RepositoryManager
	relay       relay.Relay
	log         logging.Logger
	now         func() time.Time
}

func NewContactService(m repomanager.RepositoryManager, r relay.Relay, log logging.Logger) *ContactService {
	return &ContactService{repomanager: m, relay: r, log: log, now: time.Now}
}

// Submit persists the message from sender and relays it. A failed relay is
// logged; the message is already stored so the call still succeeds.
func (s *ContactService) Submit(ctx context.Context, sender *models.User, in ContactInput) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, common.Detail(common.ErrorValidation, "All fields are required")
	}
	if utf8.RuneCountInString(in.Message) > maxContactMessageLength {
		return nil, common.Detail(common.ErrorValidation, "Message too long")
	}

	msg := &models.ContactMessage{
		UserID:    sender.ID,
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}

	stored, err := s.repomanager.Contacts().Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: store contact message: %v", common.ErrorInternal, err)
	}

	if err := s.relay.Relay(ctx, stored); err != nil {
		s.log.Warn(ctx, "contact relay failed", "contact_id", stored.ID, "error", err)
	}
	return stored, nil
}
