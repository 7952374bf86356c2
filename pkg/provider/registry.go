package provider

import (
	"slices"

	"meta-swap/pkg/types"
)

// RouterTable maps chain ids to a provider's router contract. The zero value is empty.
type RouterTable struct {
	byChain map[int64]string
}

// NewRouterTable copies m into an immutable table
func NewRouterTable(m map[int64]string) RouterTable {
	byChain := make(map[int64]string, len(m))
	for id, addr := range m {
		byChain[id] = addr
	}
	return RouterTable{byChain: byChain}
}

// UniformRouterTable maps every listed chain to the same router
func UniformRouterTable(router string, chainIDs ...int64) RouterTable {
	byChain := make(map[int64]string, len(chainIDs))
	for _, id := range chainIDs {
		byChain[id] = router
	}
	return RouterTable{byChain: byChain}
}

// Router returns the router deployed on chainID
func (t RouterTable) Router(chainID int64) (string, bool) {
	addr, ok := t.byChain[chainID]
	return addr, ok
}

// ChainIDs lists the chains with a router, ascending
func (t RouterTable) ChainIDs() []int64 {
	ids := make([]int64, 0, len(t.byChain))
	for id := range t.byChain {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of chains in the table
func (t RouterTable) Len() int {
	return len(t.byChain)
}

// Registry resolves providers by id. It is built once and only read afterwards.
type Registry struct {
	providers map[types.ProviderID]Provider
	order     []types.ProviderID
}

// NewRegistry indexes providers by their id. Later duplicates replace earlier ones.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[types.ProviderID]Provider, len(providers))}
	for _, p := range providers {
		if _, exists := r.providers[p.ID()]; !exists {
			r.order = append(r.order, p.ID())
		}
		r.providers[p.ID()] = p
	}
	return r
}

// Get returns the provider registered under id
func (r *Registry) Get(id types.ProviderID) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs lists registered providers in registration order
func (r *Registry) IDs() []types.ProviderID {
	return slices.Clone(r.order)
}

// Routers returns the router table of a provider
func (r *Registry) Routers(id types.ProviderID) (RouterTable, bool) {
	p, ok := r.providers[id]
	if !ok {
		return RouterTable{}, false
	}
	return p.Routers(), true
}

// Info summarizes a registered provider
type Info struct {
	ID            types.ProviderID `json:"id"`
	CrossChain    bool             `json:"crossChain"`
	ContractCalls bool             `json:"contractCalls"`
	Status        bool             `json:"status"`
	Chains        []int64          `json:"chains"`
}

// Describe lists the registered providers in registration order
func (r *Registry) Describe() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		p := r.providers[id]
		caps := p.Capabilities()
		_, tracks := p.(StatusChecker)
		infos = append(infos, Info{
			ID:            id,
			CrossChain:    caps.CrossChain,
			ContractCalls: caps.ContractCalls,
			Status:        tracks,
			Chains:        p.Routers().ChainIDs(),
		})
	}
	return infos
}
