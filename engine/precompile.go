package engine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// SpecID selects the hardfork rules the engine is running under. Only the
// forks that change the precompile set matter to this module.
type SpecID int

const (
	SpecFrontier SpecID = iota
	SpecHomestead
	SpecByzantium
	SpecIstanbul
	SpecBerlin
	SpecLondon
	SpecMerge
	SpecShanghai
	SpecCancun
)

// activePrecompiles returns the precompiled contract addresses of the fork.
func activePrecompiles(spec SpecID) []common.Address {
	switch {
	case spec >= SpecBerlin:
		return vm.PrecompiledAddressesBerlin
	case spec >= SpecIstanbul:
		return vm.PrecompiledAddressesIstanbul
	case spec >= SpecByzantium:
		return vm.PrecompiledAddressesByzantium
	default:
		return vm.PrecompiledAddressesHomestead
	}
}

// IsPrecompile reports whether addr is a precompiled contract under the
// given fork rules.
func IsPrecompile(spec SpecID, addr common.Address) bool {
	for _, precompile := range activePrecompiles(spec) {
		if precompile == addr {
			return true
		}
	}
	return false
}
