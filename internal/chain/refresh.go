package chain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"lstpool/internal/calculator"
	"lstpool/internal/pool"
)

// Sources maps asset mints to the on-chain accounts refresh reads.
type Sources struct {
	// StakePrograms holds the staking program whose deployment slot guards
	// the asset's calculator.
	StakePrograms map[solana.PublicKey]solana.PublicKey
	// RateAccounts holds the account storing the asset's exchange rate.
	RateAccounts map[solana.PublicKey]solana.PublicKey
}

// Refresh loads the current epoch into s and, for every asset with a
// configured source, the deployment slot of its staking program and its
// exchange-rate record. Assets without an entry keep their stored values.
func (c *Client) Refresh(ctx context.Context, s *pool.State, src Sources, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	epoch, err := c.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	s.Env.CurrentEpoch = epoch

	for i := range s.Assets {
		a := &s.Assets[i]
		if a.Valuation.Kind == calculator.KindWsol {
			continue
		}
		mint := a.Record.Mint
		if program, ok := src.StakePrograms[mint]; ok {
			slot, err := c.DeployedSlot(ctx, program)
			if err != nil {
				return err
			}
			if slot != a.Valuation.DeployedSlot {
				logger.Info("deployed slot changed",
					zap.Stringer("mint", mint),
					zap.Uint64("old", a.Valuation.DeployedSlot),
					zap.Uint64("new", slot),
				)
			}
			a.Valuation.DeployedSlot = slot
		} else {
			logger.Warn("no stake program configured", zap.Stringer("mint", mint))
		}

		account, ok := src.RateAccounts[mint]
		if !ok {
			logger.Warn("no rate account configured", zap.Stringer("mint", mint))
			continue
		}
		if err := c.ExchangeRate(ctx, a.Valuation.Kind, account, &a.Valuation); err != nil {
			return err
		}
		logger.Debug("exchange rate loaded",
			zap.Stringer("mint", mint),
			zap.Stringer("kind", a.Valuation.Kind),
		)
	}
	logger.Info("refresh complete", zap.Uint64("epoch", epoch), zap.Int("assets", len(s.Assets)))
	return nil
}
