package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// MaxNights bounds a single simulated booking
const MaxNights = 365

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3}$`)
)

// PaymentService defines the interface for the simulated checkout
type PaymentService interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Payment, error)
	ListPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

// CheckoutInput is the payment form. The full card number and CVV are never stored.
type CheckoutInput struct {
	ListingID  uuid.UUID
	Nights     int
	CardNumber string
	CardHolder string
	Expiry     string
	CVV        string
	Address    string
	City       string
	PostalCode string
	Country    string
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	listingRepo repository.ListingRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	listingRepo repository.ListingRepository,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		listingRepo: listingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// NormalizeCardNumber strips the spaces and dashes users type between digit groups
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

// ValidCardNumber reports whether number has 16 digits once separators are removed
func ValidCardNumber(number string) bool {
	return cardNumberPattern.MatchString(NormalizeCardNumber(number))
}

// ValidCardExpiry reports whether an MM/YY expiry is the current month or later
func ValidCardExpiry(expiry string, now time.Time) bool {
	m := cardExpiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	// Cards are valid through the last day of the expiry month
	endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.UTC().Before(endOfMonth)
}

func (s *paymentService) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Payment, error) {
	s.logger.Info("💳 [PaymentService] Checkout attempt", "user_id", userID, "listing_id", input.ListingID)

	if err := s.validate(&input); err != nil {
		s.logger.Warn("⚠️ [PaymentService] Checkout rejected", "user_id", userID, "reason", err)
		return nil, err
	}

	listing, err := s.listingRepo.FindByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		s.logger.Error("❌ [PaymentService] Failed to load listing", "error", err)
		return nil, err
	}

	cardNumber := NormalizeCardNumber(input.CardNumber)
	payment := &models.Payment{
		UserID:     userID,
		ListingID:  listing.ID,
		Amount:     math.Round(listing.Price*float64(input.Nights)*100) / 100,
		Nights:     input.Nights,
		CardLast4:  cardNumber[len(cardNumber)-4:],
		CardHolder: input.CardHolder,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		Status:     models.PaymentStatusCompleted,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error("❌ [PaymentService] Failed to record payment", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [PaymentService] Payment completed",
		"payment_id", payment.ID,
		"reference", payment.Reference,
		"amount", payment.Amount,
	)
	return payment, nil
}

func (s *paymentService) validate(input *CheckoutInput) error {
	input.CardHolder = strings.TrimSpace(input.CardHolder)
	input.Address = strings.TrimSpace(input.Address)
	input.City = strings.TrimSpace(input.City)
	input.PostalCode = strings.TrimSpace(input.PostalCode)
	input.Country = strings.TrimSpace(input.Country)

	if input.ListingID == uuid.Nil {
		return invalidInput("listingId is required")
	}
	if input.Nights == 0 {
		input.Nights = 1
	}
	if input.Nights < 1 || input.Nights > MaxNights {
		return invalidInput("nights must be between 1 and %d", MaxNights)
	}
	if !ValidCardNumber(input.CardNumber) {
		return invalidInput("card number must have 16 digits")
	}
	if input.CardHolder == "" {
		return invalidInput("card holder name is required")
	}
	if !ValidCardExpiry(input.Expiry, s.now()) {
		return invalidInput("card expiry must be a valid MM/YY date that has not passed")
	}
	if !cvvPattern.MatchString(input.CVV) {
		return invalidInput("cvv must have 3 digits")
	}
	if input.Address == "" || input.City == "" || input.PostalCode == "" {
		return invalidInput("address, city and postal code are required")
	}
	return nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("❌ [PaymentService] Failed to list payments", "user_id", userID, "error", err)
		return nil, err
	}
	return payments, nil
}
