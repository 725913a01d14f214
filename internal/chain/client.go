package chain

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Upgradeable loader account tags.
const (
	loaderTagProgram     uint32 = 2
	loaderTagProgramData uint32 = 3
)

// RPC is the subset of the solana-go RPC client the Client needs.
type RPC interface {
	GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetEpochInfoResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// Client wraps the solana-go RPC client and provides helper methods.
type Client struct {
	rpc        RPC
	closer     func() error
	commitment rpc.CommitmentType

	mu        sync.RWMutex
	slotCache map[solana.PublicKey]uint64
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(rpcURL string, commitment string) *Client {
	rpcClient := rpc.New(rpcURL)
	c := NewClientWithRPC(rpcClient, commitment)
	c.closer = rpcClient.Close
	return c
}

// NewClientWithRPC wraps an existing RPC implementation.
func NewClientWithRPC(api RPC, commitment string) *Client {
	if commitment == "" {
		commitment = string(rpc.CommitmentFinalized)
	}
	return &Client{
		rpc:        api,
		commitment: rpc.CommitmentType(commitment),
		slotCache:  make(map[solana.PublicKey]uint64),
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.closer != nil {
		_ = c.closer()
	}
}

// CurrentEpoch returns the current epoch.
func (c *Client) CurrentEpoch(ctx context.Context) (uint64, error) {
	info, err := c.rpc.GetEpochInfo(ctx, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("get epoch info: %w", err)
	}
	return info.Epoch, nil
}

// DeployedSlot returns the slot at which an upgradeable program was last
// deployed, using an in-memory cache.
func (c *Client) DeployedSlot(ctx context.Context, program solana.PublicKey) (uint64, error) {
	c.mu.RLock()
	slot, ok := c.slotCache[program]
	c.mu.RUnlock()
	if ok {
		return slot, nil
	}

	data, err := c.accountData(ctx, program)
	if err != nil {
		return 0, err
	}
	programData, err := ParseProgramAccount(data)
	if err != nil {
		return 0, fmt.Errorf("program %s: %w", program, err)
	}
	data, err = c.accountData(ctx, programData)
	if err != nil {
		return 0, err
	}
	slot, err = ParseProgramDataSlot(data)
	if err != nil {
		return 0, fmt.Errorf("program data %s: %w", programData, err)
	}

	c.mu.Lock()
	c.slotCache[program] = slot
	c.mu.Unlock()

	return slot, nil
}

func (c *Client) accountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", account, err)
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, fmt.Errorf("account %s not found", account)
	}
	return res.Value.Data.GetBinary(), nil
}

// ParseProgramAccount returns the program data address of an upgradeable
// program account.
func ParseProgramAccount(data []byte) (solana.PublicKey, error) {
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("read tag: %w", err)
	}
	if tag != loaderTagProgram {
		return solana.PublicKey{}, fmt.Errorf("not an upgradeable program account (tag %d)", tag)
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("read program data address: %w", err)
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// ParseProgramDataSlot returns the deployment slot stored in a program data
// account.
func ParseProgramDataSlot(data []byte) (uint64, error) {
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return 0, fmt.Errorf("read tag: %w", err)
	}
	if tag != loaderTagProgramData {
		return 0, fmt.Errorf("not a program data account (tag %d)", tag)
	}
	slot, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return 0, fmt.Errorf("read slot: %w", err)
	}
	return slot, nil
}
