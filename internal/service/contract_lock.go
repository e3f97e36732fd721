package service

import (
	"context"
	"time"

	"github.com/segyhp/equipment-lease/internal/lock"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"go.uber.org/zap"
)

// withContractLock runs fn while holding the lock of one contract. held is
// false, and fn is not run, when another operation owns the lock.
func withContractLock(
	ctx context.Context,
	locker lock.Locker,
	ttl time.Duration,
	name string,
	logger *zap.Logger,
	fn func() error,
) (held bool, err error) {
	key := lock.ContractKey(name)

	token, ok, err := locker.TryLock(ctx, key, ttl)
	if err != nil {
		return false, customError.WrapCacheError(err)
	}
	if !ok {
		return false, nil
	}

	defer func() {
		if relErr := locker.Release(context.WithoutCancel(ctx), key, token); relErr != nil {
			logger.Warn("failed to release contract lock", zap.String("contract", name), zap.Error(relErr))
		}
	}()

	return true, fn()
}
