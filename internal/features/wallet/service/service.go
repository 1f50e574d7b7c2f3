package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/features/pricing"
	"easysmm-backend/internal/features/wallet/models"
	"easysmm-backend/internal/features/wallet/repository"
	redisp "easysmm-backend/internal/platform/redis"
)

// balanceTTL keeps the storefront snappy without hammering the chain API on
// every profile open.
const balanceTTL = 30 * time.Second

// BalanceFeed reads an account's balance in nanoTON.
type BalanceFeed interface {
	GetBalanceNano(ctx context.Context, addr string) (int64, error)
}

type WalletService interface {
	// Connect links a wallet to the user, replacing any previous link.
	Connect(ctx context.Context, userID int64, addr, walletApp string) (*models.WalletLink, error)
	// Get returns the link plus a best-effort live balance.
	Get(ctx context.Context, userID int64) (*models.WalletInfo, error)
	Disconnect(ctx context.Context, userID int64) error
}

type walletService struct {
	repo repository.WalletRepository
	feed BalanceFeed
	rdb  *redisp.Client
}

func NewWalletService(repo repository.WalletRepository, feed BalanceFeed, rdb *redisp.Client) WalletService {
	return &walletService{repo: repo, feed: feed, rdb: rdb}
}

func (s *walletService) Connect(ctx context.Context, userID int64, addr, walletApp string) (*models.WalletLink, error) {
	if !validAddress(addr) {
		return nil, apperr.Validation("Invalid TON wallet address")
	}

	link := &models.WalletLink{
		UserID:      userID,
		Address:     addr,
		WalletApp:   walletApp,
		IsConnected: true,
		ConnectedAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, link); err != nil {
		return nil, apperr.Upstream(err, "Failed to save wallet")
	}
	return link, nil
}

func (s *walletService) Get(ctx context.Context, userID int64) (*models.WalletInfo, error) {
	link, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.WalletInfo{IsConnected: false, BalanceTON: "0.000"}, nil
	}
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to load wallet")
	}

	info := &models.WalletInfo{
		Address:     link.Address,
		WalletApp:   link.WalletApp,
		IsConnected: link.IsConnected,
		BalanceTON:  "0.000",
	}
	if link.IsConnected {
		info.BalanceTON, info.BalanceStale = s.balance(ctx, link.Address)
	}
	return info, nil
}

func (s *walletService) Disconnect(ctx context.Context, userID int64) error {
	err := s.repo.Disconnect(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("wallet")
	}
	if err != nil {
		return apperr.Upstream(err, "Failed to disconnect wallet")
	}
	return nil
}

// balance returns the formatted balance, degrading to a flagged zero on any
// failure. A storefront page should not break because the chain API is slow.
func (s *walletService) balance(ctx context.Context, addr string) (string, bool) {
	key := balanceKey(addr)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if nano, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return pricing.FormatTON(decimal.New(nano, -9)), false
			}
		}
	}

	nano, err := s.feed.GetBalanceNano(ctx, addr)
	if err != nil {
		logger.Warn().Err(err).Str("address", addr).Msg("balance lookup failed")
		return "0.000", true
	}

	if s.rdb != nil {
		_ = s.rdb.Set(ctx, key, strconv.FormatInt(nano, 10), balanceTTL).Err()
	}
	return pricing.FormatTON(decimal.New(nano, -9)), false
}

func balanceKey(addr string) string {
	return fmt.Sprintf("wallet:balance:%s", addr)
}

func validAddress(addr string) bool {
	if _, err := address.ParseAddr(addr); err == nil {
		return true
	}
	if _, err := address.ParseRawAddr(addr); err == nil {
		return true
	}
	return false
}
