package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/models"
)

var (
	// ErrUnknownPlan is returned when a checkout names a plan we don't sell.
	ErrUnknownPlan = errors.New("unknown subscription plan")
	// ErrPaymentNotSuccessful is returned when verification shows the
	// transaction did not complete.
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
)

// Service handles checkout initialization and subscription activation.
type Service struct {
	db     *gorm.DB
	client *Client
	cfg    config.PaymentConfig
	log    *zap.Logger
}

func NewService(db *gorm.DB, client *Client, cfg config.PaymentConfig, log *zap.Logger) *Service {
	return &Service{db: db, client: client, cfg: cfg, log: log.Named("payment")}
}

func (s *Service) priceFor(plan models.SubscriptionType) (int, error) {
	switch plan {
	case models.SubscriptionPayPerChat:
		return s.cfg.PayPerChatPrice, nil
	case models.SubscriptionUnlimited:
		return s.cfg.UnlimitedPrice, nil
	default:
		return 0, ErrUnknownPlan
	}
}

// InitializeCheckout starts a hosted checkout for the given plan and returns
// the redirect URL plus the provider reference to verify later.
func (s *Service) InitializeCheckout(ctx context.Context, user models.User, plan models.SubscriptionType) (*InitResult, error) {
	amount, err := s.priceFor(plan)
	if err != nil {
		return nil, err
	}
	result, err := s.client.InitializeTransaction(ctx, user.Email, amount, s.cfg.CallbackURL, map[string]string{
		"user_id": user.ID,
		"plan":    string(plan),
	})
	if err != nil {
		s.log.Warn("checkout initialization failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	s.log.Info("checkout initialized",
		zap.String("user_id", user.ID),
		zap.String("plan", string(plan)),
		zap.String("reference", result.Reference))
	return result, nil
}

// CompleteCheckout verifies a transaction by reference and, on success,
// activates the purchased subscription. Prior active subscriptions for the
// user are deactivated so the newest purchase always wins.
func (s *Service) CompleteCheckout(ctx context.Context, reference string) (*models.ChatSubscription, error) {
	result, err := s.client.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, ErrPaymentNotSuccessful
	}

	userID := result.Metadata["user_id"]
	plan := models.SubscriptionType(result.Metadata["plan"])
	if userID == "" {
		return nil, errors.New("transaction metadata is missing the user")
	}
	if _, err := s.priceFor(plan); err != nil {
		return nil, err
	}

	// Verification can be retried by the client; make activation idempotent
	// on the provider reference.
	var existing models.ChatSubscription
	err = s.db.WithContext(ctx).
		Where("payment_reference = ?", reference).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := models.ChatSubscription{
		UserID:           userID,
		SubscriptionType: plan,
		IsActive:         true,
		PaymentReference: reference,
	}
	switch plan {
	case models.SubscriptionPayPerChat:
		sub.ChatsRemaining = s.cfg.CreditBundle
	case models.SubscriptionUnlimited:
		expiry := time.Now().AddDate(0, 0, s.cfg.UnlimitedDays)
		sub.ExpiresAt = &expiry
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ChatSubscription{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription activated",
		zap.String("user_id", userID),
		zap.String("plan", string(plan)),
		zap.String("reference", reference))
	return &sub, nil
}
