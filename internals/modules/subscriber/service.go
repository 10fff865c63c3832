package subscriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"statuspulse/internals/security"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/mailer"
)

const (
	confirmPath     = "/api/confirm-subscription"
	unsubscribePath = "/api/unsubscribe"
)

type Service struct {
	repo        Repository
	mailer      mailer.Mailer
	validator   *validator.Validate
	salt        string
	baseURL     string
	companyName string
	logger      *zerolog.Logger
}

func NewService(repo Repository, m mailer.Mailer, validate *validator.Validate, salt, baseURL, companyName string, logger *zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		mailer:      m,
		validator:   validate,
		salt:        salt,
		baseURL:     baseURL,
		companyName: companyName,
		logger:      logger,
	}
}

// Subscribe registers an address. Active addresses are left alone, pending
// ones get their confirmation window extended, and new ones are stored
// inactive and sent a single confirmation mail.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	const op string = "service.subscriber.subscribe"

	email = strings.TrimSpace(email)
	if err := s.validateEmail(op, email); err != nil {
		return err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Active:
		return nil
	case err == nil:
		return s.repo.RefreshCreated(ctx, existing.ID)
	case !apperror.IsKind(err, apperror.NotFound):
		return err
	}

	if _, err := s.repo.Insert(ctx, email); err != nil {
		// a concurrent request inserted the same address and sent the mail
		if apperror.IsKind(err, apperror.Conflict) {
			return nil
		}
		return err
	}

	// the row stays pending even if the mail fails; the retention sweep
	// removes it later
	if err := s.mailer.Send(ctx, s.confirmationMail(email)); err != nil {
		s.logger.Error().
			Err(err).
			Str("op", op).
			Msg("failed to send confirmation mail")
	}
	return nil
}

// Confirm activates an address whose link token matches.
func (s *Service) Confirm(ctx context.Context, email, token string) error {
	const op string = "service.subscriber.confirm"

	existing, err := s.lookupVerified(ctx, op, email, token)
	if err != nil {
		return err
	}
	if existing.Active {
		return nil
	}
	return s.repo.Activate(ctx, email)
}

// Unsubscribe removes an address whose link token matches.
func (s *Service) Unsubscribe(ctx context.Context, email, token string) error {
	const op string = "service.subscriber.unsubscribe"

	if _, err := s.lookupVerified(ctx, op, email, token); err != nil {
		return err
	}
	_, err := s.repo.Delete(ctx, email)
	return err
}

func (s *Service) lookupVerified(ctx context.Context, op, email, token string) (*Subscriber, error) {
	if err := s.validateEmail(op, email); err != nil {
		return nil, err
	}
	if token == "" || !security.VerifyToken(email, s.salt, token) {
		return nil, &apperror.Error{Kind: apperror.InvalidInput, Op: op, Message: "invalid link"}
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if apperror.IsKind(err, apperror.NotFound) {
		return nil, &apperror.Error{Kind: apperror.InvalidInput, Op: op, Message: "invalid link"}
	}
	return existing, err
}

func (s *Service) validateEmail(op, email string) error {
	if err := s.validator.Var(email, "required,email"); err != nil {
		return &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Message: "email parameter is not valid",
		}
	}
	return nil
}

func (s *Service) confirmationMail(email string) mailer.Message {
	link := security.SubscriptionLink(s.baseURL, confirmPath, email, s.salt)

	return mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("Confirm Your %s Status Subscription", s.companyName),
		Body: "Thank you for subscribing to our status page.\n\n" +
			"Please click on the following link, or paste this into your browser to confirm your subscription:\n\n" +
			link +
			"\n\nIf you did not request this, please ignore this email and your email address will be removed from our systems automatically.\n",
	}
}
