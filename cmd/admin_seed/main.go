// Command admin_seed creates the admin account, demo accounts, a demo room,
// a demo transaction and the default system settings. Rerunning it only
// fills in whatever is missing.
package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"safetrade/internal/config"
	"safetrade/internal/events"
	"safetrade/internal/logger"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/repositories/cache"
	"safetrade/internal/services/notification"
	"safetrade/internal/services/payment"
	"safetrade/internal/services/room"
	"safetrade/internal/services/settings"
	"safetrade/internal/services/transaction"
	"safetrade/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const demoPassword = "123456"

var (
	demoBuyer  = account{name: "Demo Buyer", phone: "0901234567", password: demoPassword, role: models.RoleBuyer}
	demoSeller = account{name: "Demo Seller", phone: "0907654321", password: demoPassword, role: models.RoleSeller}
)

type account struct {
	name     string
	phone    string
	email    string
	password string
	role     models.Role
}

type seeder struct {
	users        repositories.UserRepository
	rooms        repositories.RoomRepository
	transactions repositories.TransactionRepository
	roomService  room.Service
	txService    transaction.Service
	settings     settings.Service
	log          *zap.Logger
}

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Admin.Phone == "" || cfg.Admin.Password == "" {
		log.Fatal("ADMIN_PHONE and ADMIN_PASSWORD must be set in environment")
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := repositories.NewDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zl.Warn("failed to close database", zap.Error(err))
		}
	}()
	if err := repositories.AutoMigrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	// The seed never touches redis; user and settings caches are refilled on demand.
	noCache := cache.NewCacheService(nil, cfg.Redis.TTL)
	txManager := repositories.NewTransactionManager(db)
	users := repositories.NewUserRepository(db, noCache, zl)
	rooms := repositories.NewRoomRepository(db)
	transactions := repositories.NewTransactionRepository(db)
	settingsService := settings.NewService(repositories.NewSettingRepository(db), noCache, cfg, zl)

	s := &seeder{
		users:        users,
		rooms:        rooms,
		transactions: transactions,
		roomService:  room.NewService(rooms, txManager, zl),
		txService: transaction.NewService(
			transactions, users, rooms, txManager,
			notification.NewService(repositories.NewNotificationRepository(db)),
			settingsService, payment.NoopVerifier{}, events.NewNoopPublisher(zl), nil, zl,
		),
		settings: settingsService,
		log:      zl,
	}

	admin := account{
		name:     cfg.Admin.Name,
		phone:    cfg.Admin.Phone,
		email:    cfg.Admin.Email,
		password: cfg.Admin.Password,
		role:     models.RoleAdmin,
	}
	if err := s.run(context.Background(), admin); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed completed")
}

func (s *seeder) run(ctx context.Context, admin account) error {
	if err := s.settings.SeedDefaults(ctx); err != nil {
		return err
	}
	if _, err := s.ensureUser(ctx, admin); err != nil {
		return err
	}

	buyer, err := s.ensureUser(ctx, demoBuyer)
	if err != nil {
		return err
	}
	seller, err := s.ensureUser(ctx, demoSeller)
	if err != nil {
		return err
	}

	demoRoom, err := s.ensureRoom(ctx, seller)
	if err != nil {
		return err
	}
	return s.ensureTransaction(ctx, buyer, seller, demoRoom)
}

func (s *seeder) ensureUser(ctx context.Context, a account) (*models.User, error) {
	existing, err := s.users.GetByPhone(ctx, a.phone)
	if err == nil {
		s.log.Info("user already exists", zap.String("phone", a.phone), zap.String("role", string(existing.Role)))
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(a.password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         a.name,
		Phone:        a.phone,
		PasswordHash: hash,
		Role:         a.role,
		IsVerified:   true,
		IsActive:     true,
		TokenVersion: 1,
	}
	if email := strings.ToLower(strings.TrimSpace(a.email)); email != "" {
		u.Email = &email
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("phone", a.phone), zap.String("role", string(a.role)))
	return u, nil
}

func (s *seeder) ensureRoom(ctx context.Context, seller *models.User) (*models.Room, error) {
	owned, err := s.rooms.ListByMember(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	for i := range owned {
		if owned[i].OwnerID == seller.ID {
			return &owned[i], nil
		}
	}

	description := "Phones, laptops and accessories from verified sellers."
	r, err := s.roomService.Create(ctx, actorOf(seller), room.CreateInput{
		Name:        "Demo Electronics",
		Description: &description,
		Category:    models.CategoryElectronics,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("room created", zap.String("room_id", r.ID.String()))
	return r, nil
}

func (s *seeder) ensureTransaction(ctx context.Context, buyer, seller *models.User, r *models.Room) error {
	n, err := s.transactions.CountByParty(ctx, buyer.ID, "")
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	description := "Sealed box, 256GB"
	txn, err := s.txService.Create(ctx, actorOf(buyer), transaction.CreateInput{
		SellerID:           seller.ID,
		RoomID:             &r.ID,
		ProductName:        "iPhone 15 Pro",
		ProductDescription: &description,
		Amount:             decimal.NewFromInt(25_000_000),
	})
	if err != nil {
		return err
	}
	s.log.Info("transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("amount", txn.Amount.String()),
		zap.String("fee", txn.FeeAmount.String()),
	)
	return nil
}

func actorOf(u *models.User) models.Actor {
	return models.Actor{UserID: u.ID, Role: u.Role}
}
