package chain

import (
	"context"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/calculator"
	"lstpool/internal/model"
)

const (
	splAccountTypeStakePool uint8 = 1

	feeSize = 16
	// lockup: unix_timestamp i64, epoch u64, custodian
	lockupSize = 8 + 8 + solana.PublicKeyLength

	anchorDiscriminatorSize = 8
	// marinade list: account, item_size u32, count u32, reserved key, reserved u32
	marinadeListSize = solana.PublicKeyLength + 4 + 4 + solana.PublicKeyLength + 4
)

// ExchangeRate fetches account and decodes it as the exchange-rate record of
// kind into rec. Wsol has no such record.
func (c *Client) ExchangeRate(ctx context.Context, kind calculator.Kind, account solana.PublicKey, rec *calculator.Record) error {
	data, err := c.accountData(ctx, account)
	if err != nil {
		return err
	}
	switch kind {
	case calculator.KindSplStakePool:
		sp, err := ParseStakePool(data)
		if err != nil {
			return fmt.Errorf("stake pool %s: %w", account, err)
		}
		rec.StakePool = &sp
	case calculator.KindLido:
		rate, err := ParseLidoRate(data)
		if err != nil {
			return fmt.Errorf("lido %s: %w", account, err)
		}
		rec.Lido = &rate
	case calculator.KindMarinade:
		st, err := ParseMarinadeState(data)
		if err != nil {
			return fmt.Errorf("marinade %s: %w", account, err)
		}
		rec.Marinade = &st
	default:
		return fmt.Errorf("no exchange rate record for %s", kind)
	}
	return nil
}

// ParseStakePool decodes the exchange-rate fields of an SPL stake pool
// account.
func ParseStakePool(data []byte) (calculator.StakePool, error) {
	var out calculator.StakePool
	dec := bin.NewBinDecoder(data)
	typ, err := dec.ReadUint8()
	if err != nil {
		return out, fmt.Errorf("read account type: %w", err)
	}
	if typ != splAccountTypeStakePool {
		return out, fmt.Errorf("not a stake pool account (type %d)", typ)
	}
	// manager, staker, deposit authority, withdraw bump, validator list,
	// reserve stake, pool mint, manager fee account, token program
	if err := skip(dec, 3*solana.PublicKeyLength+1+5*solana.PublicKeyLength); err != nil {
		return out, err
	}
	if out.TotalLamports, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read total lamports: %w", err)
	}
	if out.PoolTokenSupply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read pool token supply: %w", err)
	}
	if out.LastUpdateEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read last update epoch: %w", err)
	}
	// lockup, epoch fee
	if err := skip(dec, lockupSize+feeSize); err != nil {
		return out, err
	}
	// next epoch fee: 0 none, 1 one, 2 two
	tag, err := dec.ReadUint8()
	if err != nil {
		return out, fmt.Errorf("read next epoch fee: %w", err)
	}
	switch tag {
	case 0:
	case 1, 2:
		if err := skip(dec, feeSize); err != nil {
			return out, err
		}
	default:
		return out, fmt.Errorf("invalid next epoch fee tag %d", tag)
	}
	// preferred deposit and withdraw validators
	for i := 0; i < 2; i++ {
		if err := skipOptionalKey(dec); err != nil {
			return out, err
		}
	}
	// stake deposit fee
	if err := skip(dec, feeSize); err != nil {
		return out, err
	}
	if out.StakeWithdrawalFeeDenom, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read withdrawal fee: %w", err)
	}
	if out.StakeWithdrawalFeeNum, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read withdrawal fee: %w", err)
	}
	return out, nil
}

// ParseLidoRate decodes the exchange rate of a Lido state account.
func ParseLidoRate(data []byte) (calculator.LidoRate, error) {
	var out calculator.LidoRate
	dec := bin.NewBinDecoder(data)
	// account type, version, manager, st_sol mint
	if err := skip(dec, 2+2*solana.PublicKeyLength); err != nil {
		return out, err
	}
	var err error
	if out.ComputedInEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read computed epoch: %w", err)
	}
	if out.StSolSupply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read st_sol supply: %w", err)
	}
	if out.SolBalance, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read sol balance: %w", err)
	}
	return out, nil
}

// ParseMarinadeState decodes msol_price and the pause flag of a Marinade
// state account. Accounts written before the pause flag existed read as not
// paused.
func ParseMarinadeState(data []byte) (calculator.MarinadeState, error) {
	var out calculator.MarinadeState
	dec := bin.NewBinDecoder(data)
	const (
		header      = anchorDiscriminatorSize + 4*solana.PublicKeyLength + 2 + 8 + 4
		stakeSystem = marinadeListSize + 8 + 2 + 8 + 8 + 8 + 4
		validators  = marinadeListSize + solana.PublicKeyLength + 4 + 8 + 1
		liqPool     = solana.PublicKeyLength + 3 + solana.PublicKeyLength + 8 + 3*4 + 3*8
	)
	// header, systems, available reserve, msol supply
	if err := skip(dec, header+stakeSystem+validators+liqPool+8+8); err != nil {
		return out, err
	}
	var err error
	if out.MsolPrice, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return out, fmt.Errorf("read msol price: %w", err)
	}
	// ticket count and balance, lent from reserve, min deposit, min withdraw,
	// staking cap, emergency cooling down, pause authority
	if dec.Remaining() < 7*8+solana.PublicKeyLength+1 {
		return out, nil
	}
	if err := skip(dec, 7*8+solana.PublicKeyLength); err != nil {
		return out, err
	}
	paused, err := dec.ReadUint8()
	if err != nil {
		return out, fmt.Errorf("read paused: %w", err)
	}
	out.Paused = model.U8Bool(paused)
	return out, nil
}

func skip(dec *bin.Decoder, n int) error {
	if _, err := dec.ReadNBytes(n); err != nil {
		return fmt.Errorf("skip %d bytes: %w", n, err)
	}
	return nil
}

func skipOptionalKey(dec *bin.Decoder) error {
	tag, err := dec.ReadUint8()
	if err != nil {
		return fmt.Errorf("read option tag: %w", err)
	}
	switch tag {
	case 0:
		return nil
	case 1:
		return skip(dec, solana.PublicKeyLength)
	default:
		return fmt.Errorf("invalid option tag %d", tag)
	}
}
