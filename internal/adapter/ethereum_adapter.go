package adapter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/arena-tracker/internal/config"
	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Contract ABIs, limited to the methods the tracker consumes.
const cardRegistryABI = `[
	{"name":"getCards","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"tokenIds","type":"uint256[]"},{"name":"typeNames","type":"string[]"},{"name":"rarities","type":"uint8[]"},{"name":"multipliers","type":"uint256[]"},{"name":"imageURIs","type":"string[]"}]},
	{"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

const marketplaceABI = `[
	{"name":"floorPrice","type":"function","stateMutability":"view","inputs":[{"name":"cardType","type":"string"}],"outputs":[{"name":"price","type":"uint256"},{"name":"listed","type":"bool"}]}
]`

const tournamentRegistryABI = `[
	{"name":"tournamentCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"getTournament","type":"function","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"status","type":"uint8"},{"name":"registrationStart","type":"uint256"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"prizePool","type":"uint256"},{"name":"entryCount","type":"uint256"}]},
	{"name":"activeTournamentId","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"id","type":"uint256"},{"name":"exists","type":"bool"}]},
	{"name":"setActiveTournament","type":"function","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
	{"name":"createTournament","type":"function","stateMutability":"nonpayable","inputs":[{"name":"registrationStart","type":"uint256"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"}],"outputs":[]}
]`

const salesABI = `[
	{"name":"packsSold","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"packPrice","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"setPackPrice","type":"function","stateMutability":"nonpayable","inputs":[{"name":"price","type":"uint256"}],"outputs":[]},
	{"name":"setPaused","type":"function","stateMutability":"nonpayable","inputs":[{"name":"paused","type":"bool"}],"outputs":[]},
	{"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}],"outputs":[]}
]`

// EthereumAdapter implements ChainReader and ChainWriter against an EVM node.
type EthereumAdapter struct {
	client  *ethclient.Client
	chainID *big.Int
	timeout time.Duration

	cardContract    common.Address
	marketContract  common.Address
	tourneyContract common.Address
	salesContract   common.Address

	cardABI    abi.ABI
	marketABI  abi.ABI
	tourneyABI abi.ABI
	saleABI    abi.ABI
}

// NewEthereumAdapter dials the configured RPC endpoint and prepares the
// contract bindings.
func NewEthereumAdapter(cfg *config.ChainConfig) (*EthereumAdapter, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC %s: %w", cfg.RPCURL, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chain id: %w", err)
	}

	a := &EthereumAdapter{
		client:          client,
		chainID:         chainID,
		timeout:         cfg.RequestTimeout,
		cardContract:    common.HexToAddress(cfg.CardContract),
		marketContract:  common.HexToAddress(cfg.MarketContract),
		tourneyContract: common.HexToAddress(cfg.TourneyContract),
		salesContract:   common.HexToAddress(cfg.SalesContract),
	}

	for _, binding := range []struct {
		dst *abi.ABI
		src string
	}{
		{&a.cardABI, cardRegistryABI},
		{&a.marketABI, marketplaceABI},
		{&a.tourneyABI, tournamentRegistryABI},
		{&a.saleABI, salesABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(binding.src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
		}
		*binding.dst = parsed
	}

	return a, nil
}

// Close releases the underlying RPC connection.
func (a *EthereumAdapter) Close() {
	a.client.Close()
}

// call packs a method, executes it against a contract and returns the
// unpacked output values.
func (a *EthereumAdapter) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.client.CallContract(callCtx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	vals, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return vals, nil
}

// CardsOwnedBy returns the cards currently owned by an address.
func (a *EthereumAdapter) CardsOwnedBy(ctx context.Context, owner common.Address) ([]models.Card, error) {
	vals, err := a.call(ctx, a.cardContract, a.cardABI, "getCards", owner)
	if err != nil {
		return nil, err
	}

	tokenIDs, ok1 := vals[0].([]*big.Int)
	typeNames, ok2 := vals[1].([]string)
	rarities, ok3 := vals[2].([]uint8)
	multipliers, ok4 := vals[3].([]*big.Int)
	imageURIs, ok5 := vals[4].([]string)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil, fmt.Errorf("unexpected getCards result shape")
	}
	if len(typeNames) != len(tokenIDs) || len(rarities) != len(tokenIDs) ||
		len(multipliers) != len(tokenIDs) || len(imageURIs) != len(tokenIDs) {
		return nil, fmt.Errorf("mismatched getCards result lengths")
	}

	cards := make([]models.Card, 0, len(tokenIDs))
	for i := range tokenIDs {
		card := models.Card{
			TokenID:    tokenIDs[i].Uint64(),
			TypeName:   typeNames[i],
			Rarity:     types.Rarity(rarities[i]),
			Multiplier: multipliers[i].Uint64(),
		}
		if imageURIs[i] != "" {
			uri := imageURIs[i]
			card.ImageURI = &uri
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// FloorPrice returns the lowest current ask for a card type, or nil when the
// marketplace reports no active listings.
func (a *EthereumAdapter) FloorPrice(ctx context.Context, cardType string) (*big.Int, error) {
	vals, err := a.call(ctx, a.marketContract, a.marketABI, "floorPrice", cardType)
	if err != nil {
		return nil, err
	}

	price, ok1 := vals[0].(*big.Int)
	listed, ok2 := vals[1].(bool)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unexpected floorPrice result shape")
	}
	if !listed {
		return nil, nil
	}
	return price, nil
}

// Tournament returns one tournament record by id.
func (a *EthereumAdapter) Tournament(ctx context.Context, id uint64) (*models.Tournament, error) {
	vals, err := a.call(ctx, a.tourneyContract, a.tourneyABI, "getTournament", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	return decodeTournament(id, vals)
}

// Tournaments returns every tournament record, ascending by id. Ids are
// assigned monotonically from 1 on chain.
func (a *EthereumAdapter) Tournaments(ctx context.Context) ([]models.Tournament, error) {
	vals, err := a.call(ctx, a.tourneyContract, a.tourneyABI, "tournamentCount")
	if err != nil {
		return nil, err
	}
	count, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected tournamentCount result shape")
	}

	tournaments := make([]models.Tournament, 0, count.Uint64())
	for id := uint64(1); id <= count.Uint64(); id++ {
		t, err := a.Tournament(ctx, id)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, nil
}

func decodeTournament(id uint64, vals []interface{}) (*models.Tournament, error) {
	status, ok1 := vals[0].(uint8)
	regStart, ok2 := vals[1].(*big.Int)
	startTime, ok3 := vals[2].(*big.Int)
	endTime, ok4 := vals[3].(*big.Int)
	prizePool, ok5 := vals[4].(*big.Int)
	entryCount, ok6 := vals[5].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return nil, fmt.Errorf("unexpected getTournament result shape")
	}

	return &models.Tournament{
		ID:                id,
		Status:            types.TournamentStatus(status),
		RegistrationStart: time.Unix(regStart.Int64(), 0).UTC(),
		StartTime:         time.Unix(startTime.Int64(), 0).UTC(),
		EndTime:           time.Unix(endTime.Int64(), 0).UTC(),
		PrizePool:         prizePool,
		EntryCount:        entryCount.Uint64(),
	}, nil
}

// ContractBalances returns the native balance of each tracked contract.
func (a *EthereumAdapter) ContractBalances(ctx context.Context) ([]models.ContractBalance, error) {
	contracts := []struct {
		name string
		addr common.Address
	}{
		{"cards", a.cardContract},
		{"marketplace", a.marketContract},
		{"tournaments", a.tourneyContract},
		{"sales", a.salesContract},
	}

	balances := make([]models.ContractBalance, 0, len(contracts))
	for _, c := range contracts {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		balance, err := a.client.BalanceAt(callCtx, c.addr, nil)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s balance: %w", c.name, err)
		}
		balances = append(balances, models.ContractBalance{
			Name:    c.name,
			Address: c.addr.Hex(),
			Balance: balance,
		})
	}
	return balances, nil
}

// AggregateStats returns the global sales and supply aggregates.
func (a *EthereumAdapter) AggregateStats(ctx context.Context) (*models.AggregateStats, error) {
	stats := &models.AggregateStats{}

	vals, err := a.call(ctx, a.salesContract, a.saleABI, "packsSold")
	if err != nil {
		return nil, err
	}
	if sold, ok := vals[0].(*big.Int); ok {
		stats.PacksSold = sold.Uint64()
	}

	vals, err = a.call(ctx, a.salesContract, a.saleABI, "packPrice")
	if err != nil {
		return nil, err
	}
	if price, ok := vals[0].(*big.Int); ok {
		stats.PackPrice = price
	}

	vals, err = a.call(ctx, a.cardContract, a.cardABI, "totalSupply")
	if err != nil {
		return nil, err
	}
	if supply, ok := vals[0].(*big.Int); ok {
		stats.TotalCardSupply = supply.Uint64()
	}

	vals, err = a.call(ctx, a.tourneyContract, a.tourneyABI, "activeTournamentId")
	if err != nil {
		return nil, err
	}
	if exists, ok := vals[1].(bool); ok && exists {
		if id, ok := vals[0].(*big.Int); ok {
			active := id.Uint64()
			stats.ActiveTournamentID = &active
		}
	}

	return stats, nil
}

// transact signs, submits and waits for one mutating transaction. The error
// returned for a rejected transaction carries the node's reason untouched.
func (a *EthereumAdapter) transact(ctx context.Context, signer Signer, to common.Address, data []byte) (common.Hash, error) {
	if signer == nil {
		return common.Hash{}, fmt.Errorf("no signing capability supplied")
	}

	from := signer.Address()

	nonce, err := a.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := a.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	// Gas estimation runs the call; a revert surfaces here with the chain's
	// reason before anything is submitted.
	gasLimit, err := a.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, err
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := signer.SignTx(tx, a.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := a.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}

	receipt, err := bind.WaitMined(ctx, a.client, signed)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed waiting for transaction %s: %w", signed.Hash(), err)
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("transaction %s reverted", signed.Hash())
	}

	return signed.Hash(), nil
}

// Withdraw transfers the sales contract balance to the given address.
func (a *EthereumAdapter) Withdraw(ctx context.Context, signer Signer, to common.Address) (common.Hash, error) {
	data, err := a.saleABI.Pack("withdraw", to)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack withdraw call: %w", err)
	}
	return a.transact(ctx, signer, a.salesContract, data)
}

// SetPackPrice updates the pack price in native units.
func (a *EthereumAdapter) SetPackPrice(ctx context.Context, signer Signer, price *big.Int) (common.Hash, error) {
	data, err := a.saleABI.Pack("setPackPrice", price)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack setPackPrice call: %w", err)
	}
	return a.transact(ctx, signer, a.salesContract, data)
}

// SetActiveTournament repoints the globally active tournament.
func (a *EthereumAdapter) SetActiveTournament(ctx context.Context, signer Signer, id uint64) (common.Hash, error) {
	data, err := a.tourneyABI.Pack("setActiveTournament", new(big.Int).SetUint64(id))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack setActiveTournament call: %w", err)
	}
	return a.transact(ctx, signer, a.tourneyContract, data)
}

// CreateTournament creates a tournament and returns its newly assigned id.
func (a *EthereumAdapter) CreateTournament(ctx context.Context, signer Signer, registrationStart, startTime, endTime uint64) (uint64, common.Hash, error) {
	data, err := a.tourneyABI.Pack("createTournament",
		new(big.Int).SetUint64(registrationStart),
		new(big.Int).SetUint64(startTime),
		new(big.Int).SetUint64(endTime),
	)
	if err != nil {
		return 0, common.Hash{}, fmt.Errorf("failed to pack createTournament call: %w", err)
	}

	hash, err := a.transact(ctx, signer, a.tourneyContract, data)
	if err != nil {
		return 0, common.Hash{}, err
	}

	// Ids are assigned monotonically, so the count after mining is the id of
	// the tournament just created.
	vals, err := a.call(ctx, a.tourneyContract, a.tourneyABI, "tournamentCount")
	if err != nil {
		return 0, hash, fmt.Errorf("tournament created but id lookup failed: %w", err)
	}
	count, ok := vals[0].(*big.Int)
	if !ok {
		return 0, hash, fmt.Errorf("unexpected tournamentCount result shape")
	}
	return count.Uint64(), hash, nil
}

// SetPaused pauses or resumes pack sales.
func (a *EthereumAdapter) SetPaused(ctx context.Context, signer Signer, paused bool) (common.Hash, error) {
	data, err := a.saleABI.Pack("setPaused", paused)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack setPaused call: %w", err)
	}
	return a.transact(ctx, signer, a.salesContract, data)
}
