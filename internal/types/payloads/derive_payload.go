package payloads

import (
	"context"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/chain"
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// 单次批量派生的最大地址数
const MaxRangeSize = 10000

// DeriveWalletPayload 定义
type DeriveWalletPayload struct {
	AssetID      string `json:"asset_id"`
	XPRV         string `json:"xprv,omitempty"`
	XPUB         string `json:"xpub,omitempty"`
	FPRV         string `json:"fprv,omitempty"`
	FPUB         string `json:"fpub,omitempty"`
	CoinType     *int64 `json:"coin_type,omitempty"`
	Account      int64  `json:"account"`
	Change       int64  `json:"change"`
	AddressIndex int64  `json:"address_index"`
	IsTestnet    bool   `json:"is_testnet"`
	IsLegacy     bool   `json:"is_legacy"`
}

// Validate validates DeriveWalletPayload
func (m *DeriveWalletPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("asset_id", "body", m.AssetID); err != nil {
		res = append(res, err)
	}

	if err := validate.Enum("asset_id", "body", m.AssetID, assetEnum()); err != nil {
		res = append(res, err)
	}

	if m.XPRV == "" && m.XPUB == "" && m.FPRV == "" && m.FPUB == "" {
		res = append(res, errors.Required("xprv|xpub|fprv|fpub", "body", nil))
	}

	res = appendIndexErrors(res, "account", m.Account)
	res = appendIndexErrors(res, "change", m.Change)
	res = appendIndexErrors(res, "address_index", m.AddressIndex)
	if m.CoinType != nil {
		res = appendIndexErrors(res, "coin_type", *m.CoinType)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *DeriveWalletPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// WalletInput converts a validated payload into a derivation request.
func (m *DeriveWalletPayload) WalletInput() chain.WalletInput {
	in := chain.WalletInput{
		AssetID: m.AssetID,
		XPRV:    m.XPRV,
		XPUB:    m.XPUB,
		FPRV:    m.FPRV,
		FPUB:    m.FPUB,
		Path: chain.PathParts{
			Account:      uint32(m.Account),
			Change:       uint32(m.Change),
			AddressIndex: uint32(m.AddressIndex),
		},
		IsTestnet: m.IsTestnet,
		IsLegacy:  m.IsLegacy,
	}
	if m.CoinType != nil {
		ct := uint32(*m.CoinType)
		in.Path.CoinType = &ct
	}
	return in
}

// DeriveRangePayload 定义
type DeriveRangePayload struct {
	DeriveWalletPayload
	From    int64 `json:"from"`
	To      int64 `json:"to"`
	Workers int64 `json:"workers"`
}

// Validate validates DeriveRangePayload
func (m *DeriveRangePayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.DeriveWalletPayload.Validate(formats); err != nil {
		res = append(res, err)
	}

	res = appendIndexErrors(res, "from", m.From)
	res = appendIndexErrors(res, "to", m.To)

	if err := validate.MinimumInt("to", "body", m.To, m.From, false); err != nil {
		res = append(res, err)
	}

	if err := validate.MaximumInt("to", "body", m.To-m.From, MaxRangeSize, true); err != nil {
		res = append(res, err)
	}

	if err := validate.MinimumInt("workers", "body", m.Workers, 1, false); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *DeriveRangePayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// WalletResponse 定义
type WalletResponse struct {
	Wallets []*chain.Wallet `json:"wallets"`
}

// Validate validates WalletResponse
func (m *WalletResponse) Validate(formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *WalletResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *WalletResponse) UnmarshalBinary(b []byte) error {
	var res WalletResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

func assetEnum() []interface{} {
	assets := chain.SupportedAssets()
	out := make([]interface{}, len(assets))
	for i, a := range assets {
		out[i] = a
	}
	return out
}

// BIP44 各级索引都必须落在 uint32 内
func appendIndexErrors(res []error, name string, v int64) []error {
	if err := validate.MinimumInt(name, "body", v, 0, false); err != nil {
		res = append(res, err)
	}
	if err := validate.MaximumInt(name, "body", v, 1<<32-1, false); err != nil {
		res = append(res, err)
	}
	return res
}

// PublicKeysResponse 定义
type PublicKeysResponse struct {
	XPUB string `json:"xpub,omitempty"`
	FPUB string `json:"fpub,omitempty"`
}

// MarshalBinary interface implementation
func (m *PublicKeysResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PublicKeysResponse) UnmarshalBinary(b []byte) error {
	var res PublicKeysResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
