package dashboard

import (
	"context"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
)

const recentLimit = 5

type Service interface {
	// Stats assembles the admin dashboard: overview counts, transaction and
	// dispute statistics, and the latest transactions and users.
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type service struct {
	users        repositories.UserRepository
	transactions repositories.TransactionRepository
	disputes     repositories.DisputeRepository
	rooms        repositories.RoomRepository
}

func NewService(
	users repositories.UserRepository,
	transactions repositories.TransactionRepository,
	disputes repositories.DisputeRepository,
	rooms repositories.RoomRepository,
) Service {
	return &service{
		users:        users,
		transactions: transactions,
		disputes:     disputes,
		rooms:        rooms,
	}
}

func (s *service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	overview, err := s.overview(ctx)
	if err != nil {
		return nil, err
	}

	txStats, err := s.transactions.Statistics(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	overview.TotalTransactions = txStats.TotalTransactions

	disputeStats, err := s.disputes.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	overview.TotalDisputes = disputeStats.Total

	recentTxns, err := s.transactions.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	recentUsers, err := s.users.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		Overview:           *overview,
		TransactionStats:   *txStats,
		DisputeStats:       *disputeStats,
		RecentTransactions: recentTxns,
		RecentUsers:        recentUsers,
	}, nil
}

func (s *service) overview(ctx context.Context) (*models.Overview, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byRole {
		total += n
	}
	return &models.Overview{
		TotalUsers:   total,
		ActiveUsers:  active,
		TotalBuyers:  byRole[models.RoleBuyer],
		TotalSellers: byRole[models.RoleSeller],
		TotalRooms:   rooms,
	}, nil
}
