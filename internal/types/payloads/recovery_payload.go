package payloads

import (
	"context"

	"github.com/SafeMPC/mpc-recovery/internal/infra/recovery"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/ncw"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// RecoverKitPayload 定义
type RecoverKitPayload struct {
	ZipPath          string `json:"zip_path"`
	RSAKeyPath       string `json:"rsa_key_path"`
	MobileRSAKeyPath string `json:"mobile_rsa_key_path,omitempty"`
	RecoverPrivate   bool   `json:"recover_private"`
	OnlyNCW          bool   `json:"only_ncw"`
}

// Validate validates RecoverKitPayload
func (m *RecoverKitPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("zip_path", "body", m.ZipPath); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("rsa_key_path", "body", m.RSAKeyPath); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *RecoverKitPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// RecoverKitResponse 定义
type RecoverKitResponse struct {
	recovery.RecoveredKeys
}

// Validate validates RecoverKitResponse
func (m *RecoverKitResponse) Validate(formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *RecoverKitResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *RecoverKitResponse) UnmarshalBinary(b []byte) error {
	var res RecoverKitResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// DeriveNCWPayload 定义
type DeriveNCWPayload struct {
	WalletID  string `json:"wallet_id"`
	Algorithm string `json:"algorithm"`
}

// Validate validates DeriveNCWPayload
func (m *DeriveNCWPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("wallet_id", "body", m.WalletID); err != nil {
		res = append(res, err)
	} else if err := validate.FormatOf("wallet_id", "body", "uuid", m.WalletID, formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Enum("algorithm", "body", m.Algorithm, []interface{}{string(types.MPCECDSA)}); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *DeriveNCWPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// DeriveNCWResponse 定义
type DeriveNCWResponse struct {
	WalletID string `json:"wallet_id"`
	ncw.WalletShares
}

// MarshalBinary interface implementation
func (m *DeriveNCWResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *DeriveNCWResponse) UnmarshalBinary(b []byte) error {
	var res DeriveNCWResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
