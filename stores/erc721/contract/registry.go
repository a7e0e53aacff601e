package contract

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain/erc721"
)

type proxyRegistry struct {
	address common.Address
	proxies map[common.Address]common.Address
}

func DeployProxyRegistry(tx *ledger.Tx) erc721.ProxyRegistry {
	return &proxyRegistry{
		address: tx.Deploy("ProxyRegistry"),
		proxies: make(map[common.Address]common.Address),
	}
}

func (r *proxyRegistry) Address() common.Address {
	return r.address
}

func (r *proxyRegistry) Proxies(owner common.Address) common.Address {
	return r.proxies[owner]
}

// RegisterProxy sets the proxy of the sender, the zero address removes it
func (r *proxyRegistry) RegisterProxy(tx *ledger.Tx, proxy common.Address) error {
	owner := tx.Sender()
	prev, had := r.proxies[owner]
	if proxy == (common.Address{}) {
		delete(r.proxies, owner)
	} else {
		r.proxies[owner] = proxy
	}
	tx.Journal(func() {
		if had {
			r.proxies[owner] = prev
		} else {
			delete(r.proxies, owner)
		}
	})
	return nil
}

type directory struct {
	contracts map[common.Address]erc721.Contract
}

// Directory is an erc721.Directory contracts are added to at deployment
type Directory interface {
	erc721.Directory
	Add(tx *ledger.Tx, c erc721.Contract)
}

func NewDirectory() Directory {
	return &directory{
		contracts: make(map[common.Address]erc721.Contract),
	}
}

func (d *directory) Lookup(addr common.Address) (erc721.Contract, bool) {
	c, ok := d.contracts[addr]
	return c, ok
}

func (d *directory) Add(tx *ledger.Tx, c erc721.Contract) {
	addr := c.Address()
	d.contracts[addr] = c
	tx.Journal(func() { delete(d.contracts, addr) })
}
