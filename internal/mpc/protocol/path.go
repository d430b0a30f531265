package protocol

import (
	"fmt"
)

// Purpose is the BIP44 purpose level, fixed for every wallet path.
const Purpose uint32 = 44

// Path is the five-level BIP44-style path m/purpose/coinType/account/change/addressIndex.
type Path struct {
	Purpose      uint32 `json:"purpose"`
	CoinType     uint32 `json:"coinType"`
	Account      uint32 `json:"account"`
	Change       uint32 `json:"changeIndex"`
	AddressIndex uint32 `json:"addressIndex"`
}

func NewPath(coinType, account, change, addressIndex uint32) Path {
	return Path{
		Purpose:      Purpose,
		CoinType:     coinType,
		Account:      account,
		Change:       change,
		AddressIndex: addressIndex,
	}
}

// Indices returns the path parts in derivation order.
func (p Path) Indices() []uint32 {
	return []uint32{p.Purpose, p.CoinType, p.Account, p.Change, p.AddressIndex}
}

func (p Path) String() string {
	return fmt.Sprintf("m/%d/%d/%d/%d/%d", p.Purpose, p.CoinType, p.Account, p.Change, p.AddressIndex)
}
