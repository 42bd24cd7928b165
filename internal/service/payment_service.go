package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/account"
	"github.com/stripe/stripe-go/v79/accountlink"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/repository"
)

// PaymentService handles professor payout onboarding through Stripe
// Connect Express accounts and keeps verification state in sync via the
// account.updated webhook.
type PaymentService struct {
	userRepo      *repository.UserRepository
	webhookSecret string
	frontendURL   string
	logger        *zap.Logger
}

func NewPaymentService(userRepo *repository.UserRepository, secretKey, webhookSecret, frontendURL string, logger *zap.Logger) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{
		userRepo:      userRepo,
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
		logger:        logger,
	}
}

// CreateOnboardingLink returns a one-time URL that takes the professor
// through Connect onboarding. Idempotent on the account itself: the
// connected account is created once and reused for later links.
func (s *PaymentService) CreateOnboardingLink(ctx context.Context, userID int64) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return "", apperr.NotFound("user not found")
	}
	if !user.IsProfessor() {
		return "", apperr.Forbidden("only professors can receive payouts")
	}

	accountID := ""
	if user.StripeAccountID != nil {
		accountID = *user.StripeAccountID
	}

	if accountID == "" {
		acct, err := account.New(&stripe.AccountParams{
			Type:  stripe.String(string(stripe.AccountTypeExpress)),
			Email: stripe.String(user.Email),
		})
		if err != nil {
			return "", fmt.Errorf("create connected account: %w", err)
		}
		accountID = acct.ID

		if err := s.userRepo.SetStripeAccount(ctx, userID, accountID, "pending"); err != nil {
			return "", fmt.Errorf("store connected account: %w", err)
		}

		s.logger.Info("Connected account created",
			zap.Int64("user_id", userID),
			zap.String("account_id", accountID),
		)
	}

	link, err := accountlink.New(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.frontendURL + "/payments/onboarding"),
		ReturnURL:  stripe.String(s.frontendURL + "/payments/complete"),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", fmt.Errorf("create account link: %w", err)
	}

	return link.URL, nil
}

// HandleWebhook verifies and applies a Stripe event. Only account.updated
// is acted on; everything else is acknowledged and dropped.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "verify webhook signature")
	}

	if event.Type != "account.updated" {
		return nil
	}

	var acct stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
		return fmt.Errorf("decode account event: %w", err)
	}

	user, err := s.userRepo.GetByStripeAccountID(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("get user by account: %w", err)
	}
	if user == nil {
		// Account not ours (e.g. created in the dashboard); ignore.
		return nil
	}

	status := "pending"
	if acct.ChargesEnabled {
		status = "verified"
	}

	if err := s.userRepo.SetStripeStatus(ctx, user.ID, status, acct.PayoutsEnabled); err != nil {
		return fmt.Errorf("update account status: %w", err)
	}

	s.logger.Info("Connected account status updated",
		zap.Int64("user_id", user.ID),
		zap.String("status", status),
		zap.Bool("payout_ready", acct.PayoutsEnabled),
	)

	return nil
}
