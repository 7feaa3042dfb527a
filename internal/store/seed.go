package store

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/service-marketplace/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

// seedFixture mirrors seed.yaml. Booking and transaction references are
// 1-based positions in their lists; zero means no reference.
type seedFixture struct {
	Users []struct {
		Key        string     `yaml:"key"`
		Email      string     `yaml:"email"`
		Name       string     `yaml:"name"`
		Role       model.Role `yaml:"role"`
		Password   string     `yaml:"password"`
		IsVerified bool       `yaml:"is_verified"`
		Phone      *string    `yaml:"phone"`
		Avatar     *string    `yaml:"avatar"`
		Balance    string     `yaml:"balance"`
	} `yaml:"users"`
	PaymentMethods []struct {
		User      string                  `yaml:"user"`
		Type      model.PaymentMethodType `yaml:"type"`
		Last4     string                  `yaml:"last4"`
		Brand     string                  `yaml:"brand"`
		IsDefault bool                    `yaml:"is_default"`
	} `yaml:"payment_methods"`
	Services []struct {
		Key         string `yaml:"key"`
		Provider    string `yaml:"provider"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Price       string `yaml:"price"`
		Duration    string `yaml:"duration"`
		Category    string `yaml:"category"`
		Image       string `yaml:"image"`
	} `yaml:"services"`
	Bookings []struct {
		User    string  `yaml:"user"`
		Service string  `yaml:"service"`
		Date    string  `yaml:"date"`
		Time    string  `yaml:"time"`
		Address string  `yaml:"address"`
		Notes   *string `yaml:"notes"`
	} `yaml:"bookings"`
	Transactions []struct {
		User        string                  `yaml:"user"`
		Type        model.TransactionType   `yaml:"type"`
		Amount      string                  `yaml:"amount"`
		Description string                  `yaml:"description"`
		Status      model.TransactionStatus `yaml:"status"`
		Booking     int                     `yaml:"booking"`
	} `yaml:"transactions"`
	Notifications []struct {
		User        string                 `yaml:"user"`
		Type        model.NotificationType `yaml:"type"`
		Title       string                 `yaml:"title"`
		Message     string                 `yaml:"message"`
		Booking     int                    `yaml:"booking"`
		Transaction int                    `yaml:"transaction"`
	} `yaml:"notifications"`
}

// Seed loads the embedded demo fixture: two users with opening wallet
// balances, a payment method, two services, a booking, two transactions
// and two notifications. Opening balances go through UpdateWalletBalance,
// so they are not backed by transactions of their own.
func (s *Store) Seed() error {
	var fx seedFixture
	if err := yaml.Unmarshal(seedYAML, &fx); err != nil {
		return fmt.Errorf("parse seed fixture: %w", err)
	}

	users := make(map[string]model.User, len(fx.Users))
	for _, in := range fx.Users {
		balance, err := decimal.NewFromString(in.Balance)
		if err != nil {
			return fmt.Errorf("seed user %s balance: %w", in.Key, err)
		}
		u, err := s.CreateUser(model.NewUser{
			Email:      in.Email,
			Name:       in.Name,
			Role:       in.Role,
			Password:   in.Password,
			IsVerified: in.IsVerified,
			Avatar:     in.Avatar,
			Phone:      in.Phone,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", in.Key, err)
		}
		s.UpdateWalletBalance(u.ID, balance)
		users[in.Key] = u
	}

	for _, in := range fx.PaymentMethods {
		s.CreatePaymentMethod(model.NewPaymentMethod{
			UserID:    users[in.User].ID,
			Type:      in.Type,
			Last4:     in.Last4,
			Brand:     in.Brand,
			IsDefault: in.IsDefault,
		})
	}

	services := make(map[string]model.Service, len(fx.Services))
	for _, in := range fx.Services {
		price, err := decimal.NewFromString(in.Price)
		if err != nil {
			return fmt.Errorf("seed service %s price: %w", in.Key, err)
		}
		duration, err := decimal.NewFromString(in.Duration)
		if err != nil {
			return fmt.Errorf("seed service %s duration: %w", in.Key, err)
		}
		services[in.Key] = s.CreateService(model.NewService{
			Name:        in.Name,
			Description: in.Description,
			Price:       price,
			Duration:    duration,
			Category:    in.Category,
			ProviderID:  users[in.Provider].ID,
			Image:       in.Image,
			IsActive:    true,
		})
	}

	bookings := make([]model.Booking, 0, len(fx.Bookings))
	for _, in := range fx.Bookings {
		bookings = append(bookings, s.CreateBooking(model.NewBooking{
			UserID:    users[in.User].ID,
			ServiceID: services[in.Service].ID,
			Date:      in.Date,
			Time:      in.Time,
			Address:   in.Address,
			Notes:     in.Notes,
		}))
	}

	txns := make([]model.Transaction, 0, len(fx.Transactions))
	for i, in := range fx.Transactions {
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return fmt.Errorf("seed transaction %d amount: %w", i+1, err)
		}
		nt := model.NewTransaction{
			UserID:      users[in.User].ID,
			Type:        in.Type,
			Amount:      amount,
			Description: in.Description,
			Status:      in.Status,
		}
		if ref, ok := pick(bookings, in.Booking); ok {
			nt.BookingID = &ref.ID
		}
		txns = append(txns, s.CreateTransaction(nt))
	}

	for _, in := range fx.Notifications {
		nn := model.NewNotification{
			UserID:  users[in.User].ID,
			Type:    in.Type,
			Title:   in.Title,
			Message: in.Message,
		}
		if b, ok := pick(bookings, in.Booking); ok {
			nn.Data = model.BookingPayload{BookingID: b.ID, Status: b.Status}
		}
		if t, ok := pick(txns, in.Transaction); ok {
			nn.Data = model.PaymentPayload{TransactionID: t.ID, Amount: t.Amount}
		}
		s.CreateNotification(nn)
	}

	s.mu.RLock()
	s.log.Info("seed data loaded",
		zap.Int("users", s.users.len()),
		zap.Int("services", s.services.len()),
		zap.Int("bookings", s.bookings.len()),
		zap.Int("transactions", s.transactions.len()),
		zap.Int("notifications", s.notifications.len()))
	s.mu.RUnlock()
	return nil
}

// pick returns the element at 1-based position pos.
func pick[T any](rows []T, pos int) (T, bool) {
	var zero T
	if pos < 1 || pos > len(rows) {
		return zero, false
	}
	return rows[pos-1], true
}
