package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/erc721"
)

const (
	DefaultName   = "BWPNFT"
	DefaultSymbol = "BNFT"
)

type NftCfg struct {
	Name    string
	Symbol  string
	BaseURI string
	// Registry is trusted for isApprovedForAll, nil when the registry has no code on the ledger
	Registry        erc721.ProxyRegistry
	RegistryAddress common.Address
}

type nft struct {
	address         common.Address
	name            string
	symbol          string
	baseURI         string
	registry        erc721.ProxyRegistry
	registryAddress common.Address

	owner     common.Address
	currentId uint64

	owners            map[uint64]common.Address
	balances          map[common.Address]uint64
	tokenApprovals    map[uint64]common.Address
	operatorApprovals map[common.Address]map[common.Address]bool
}

// Deploy creates the nft inside tx, tx.Sender() becomes the owner allowed to mint
func Deploy(tx *ledger.Tx, cfg *NftCfg) (erc721.Contract, error) {
	n := &nft{
		address:           tx.Deploy("TradableNFT"),
		name:              cfg.Name,
		symbol:            cfg.Symbol,
		baseURI:           cfg.BaseURI,
		registry:          cfg.Registry,
		registryAddress:   cfg.RegistryAddress,
		owner:             tx.Sender(),
		owners:            make(map[uint64]common.Address),
		balances:          make(map[common.Address]uint64),
		tokenApprovals:    make(map[uint64]common.Address),
		operatorApprovals: make(map[common.Address]map[common.Address]bool),
	}
	if n.registry != nil {
		n.registryAddress = n.registry.Address()
	}
	return n, nil
}

func (n *nft) Address() common.Address {
	return n.address
}

func (n *nft) Info() *erc721.Info {
	return &erc721.Info{
		Address:       n.address,
		Name:          n.name,
		Symbol:        n.symbol,
		Owner:         n.owner,
		ProxyRegistry: n.registryAddress,
		TotalSupply:   n.currentId,
	}
}

func (n *nft) OwnerOf(tokenId *big.Int) (common.Address, error) {
	id, ok := toId(tokenId)
	if !ok {
		return common.Address{}, domain.ErrERC721InvalidToken
	}
	owner, ok := n.owners[id]
	if !ok {
		return common.Address{}, domain.ErrERC721InvalidToken
	}
	return owner, nil
}

func (n *nft) BalanceOf(owner common.Address) (*big.Int, error) {
	if owner == (common.Address{}) {
		return nil, domain.ErrERC721ZeroAddressBalance
	}
	return new(big.Int).SetUint64(n.balances[owner]), nil
}

func (n *nft) GetApproved(tokenId *big.Int) (common.Address, error) {
	if _, err := n.OwnerOf(tokenId); err != nil {
		return common.Address{}, err
	}
	return n.tokenApprovals[tokenId.Uint64()], nil
}

// IsApprovedForAll also trusts the proxy the registry holds for owner
func (n *nft) IsApprovedForAll(owner, operator common.Address) bool {
	if n.registry != nil {
		if proxy := n.registry.Proxies(owner); proxy != (common.Address{}) && proxy == operator {
			return true
		}
	}
	return n.operatorApprovals[owner][operator]
}

func (n *nft) TokenURI(tokenId *big.Int) (string, error) {
	if _, err := n.OwnerOf(tokenId); err != nil {
		return "", err
	}
	return n.baseURI + tokenId.String(), nil
}

func (n *nft) MintTo(tx *ledger.Tx, to common.Address) (*big.Int, error) {
	if tx.Sender() != n.owner {
		return nil, domain.ErrNotOwner
	}
	if to == (common.Address{}) {
		return nil, domain.ErrERC721MintToZero
	}
	prevId := n.currentId
	n.currentId = prevId + 1
	tx.Journal(func() { n.currentId = prevId })

	id := n.currentId
	n.setOwner(tx, id, to)
	n.setBalance(tx, to, n.balances[to]+1)
	tokenId := new(big.Int).SetUint64(id)
	if err := n.emit(tx, "Transfer", common.Address{}, to, tokenId); err != nil {
		return nil, err
	}
	return tokenId, nil
}

func (n *nft) Approve(tx *ledger.Tx, to common.Address, tokenId *big.Int) error {
	owner, err := n.OwnerOf(tokenId)
	if err != nil {
		return err
	}
	if to == owner {
		return domain.ErrERC721ApprovalToCurrentOwner
	}
	sender := tx.Sender()
	if sender != owner && !n.IsApprovedForAll(owner, sender) {
		return domain.ErrERC721ApproveCallerNotAllowed
	}
	n.setApproval(tx, tokenId.Uint64(), to)
	return n.emit(tx, "Approval", owner, to, tokenId)
}

func (n *nft) SetApprovalForAll(tx *ledger.Tx, operator common.Address, approved bool) error {
	owner := tx.Sender()
	if owner == operator {
		return domain.ErrERC721ApproveToCaller
	}
	m, ok := n.operatorApprovals[owner]
	if !ok {
		m = make(map[common.Address]bool)
		n.operatorApprovals[owner] = m
	}
	prev, had := m[operator]
	m[operator] = approved
	tx.Journal(func() {
		if had {
			m[operator] = prev
		} else {
			delete(m, operator)
		}
	})
	return n.emit(tx, "ApprovalForAll", owner, operator, approved)
}

func (n *nft) TransferFrom(tx *ledger.Tx, from, to common.Address, tokenId *big.Int) error {
	owner, err := n.OwnerOf(tokenId)
	if err != nil {
		return err
	}
	id := tokenId.Uint64()
	sender := tx.Sender()
	if sender != owner && n.tokenApprovals[id] != sender && !n.IsApprovedForAll(owner, sender) {
		return domain.ErrERC721NotOwnerNorApproved
	}
	if owner != from {
		return domain.ErrERC721TransferFromWrongOwner
	}
	if to == (common.Address{}) {
		return domain.ErrERC721TransferToZero
	}

	if _, ok := n.tokenApprovals[id]; ok {
		n.setApproval(tx, id, common.Address{})
	}
	n.setBalance(tx, from, n.balances[from]-1)
	n.setBalance(tx, to, n.balances[to]+1)
	n.setOwner(tx, id, to)
	return n.emit(tx, "Transfer", from, to, tokenId)
}

func (n *nft) setOwner(tx *ledger.Tx, id uint64, owner common.Address) {
	prev, had := n.owners[id]
	n.owners[id] = owner
	tx.Journal(func() {
		if had {
			n.owners[id] = prev
		} else {
			delete(n.owners, id)
		}
	})
}

func (n *nft) setBalance(tx *ledger.Tx, owner common.Address, v uint64) {
	prev := n.balances[owner]
	n.balances[owner] = v
	tx.Journal(func() { n.balances[owner] = prev })
}

// setApproval with the zero address clears the approval
func (n *nft) setApproval(tx *ledger.Tx, id uint64, to common.Address) {
	prev, had := n.tokenApprovals[id]
	if to == (common.Address{}) {
		delete(n.tokenApprovals, id)
	} else {
		n.tokenApprovals[id] = to
	}
	tx.Journal(func() {
		if had {
			n.tokenApprovals[id] = prev
		} else {
			delete(n.tokenApprovals, id)
		}
	})
}

func (n *nft) emit(tx *ledger.Tx, event string, args ...interface{}) error {
	topics, data, err := abi.PackEvent(abi.ERC721ABI, event, args...)
	if err != nil {
		return err
	}
	tx.Emit(n.address, topics, data)
	return nil
}

func toId(tokenId *big.Int) (uint64, bool) {
	if tokenId == nil || tokenId.Sign() <= 0 || !tokenId.IsUint64() {
		return 0, false
	}
	return tokenId.Uint64(), true
}
