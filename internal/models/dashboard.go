package models

import "github.com/shopspring/decimal"

type TransactionStats struct {
	TotalTransactions     int64                       `json:"totalTransactions"`
	TotalAmount           decimal.Decimal             `json:"totalAmount"`
	TotalFees             decimal.Decimal             `json:"totalFees"`
	CompletedTransactions int64                       `json:"completedTransactions"`
	DisputedTransactions  int64                       `json:"disputedTransactions"`
	ByStatus              map[TransactionStatus]int64 `json:"byStatus"`
}

type DisputeStats struct {
	Total         int64 `json:"total"`
	Pending       int64 `json:"pending"`
	Investigating int64 `json:"investigating"`
	Resolved      int64 `json:"resolved"`
	Rejected      int64 `json:"rejected"`
}

type UserStats struct {
	TotalTransactions     int64 `json:"totalTransactions"`
	CompletedTransactions int64 `json:"completedTransactions"`
	TotalDisputes         int64 `json:"totalDisputes"`
	UnreadNotifications   int64 `json:"unreadNotifications"`
}

type Overview struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers       int64 `json:"activeUsers"`
	TotalBuyers       int64 `json:"totalBuyers"`
	TotalSellers      int64 `json:"totalSellers"`
	TotalRooms        int64 `json:"totalRooms"`
	TotalTransactions int64 `json:"totalTransactions"`
	TotalDisputes     int64 `json:"totalDisputes"`
}

type DashboardStats struct {
	Overview           Overview         `json:"overview"`
	TransactionStats   TransactionStats `json:"transactionStats"`
	DisputeStats       DisputeStats     `json:"disputeStats"`
	RecentTransactions []Transaction    `json:"recentTransactions"`
	RecentUsers        []User           `json:"recentUsers"`
}
