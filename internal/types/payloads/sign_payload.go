package payloads

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const hexPattern = `^(0x)?([0-9a-fA-F]{2})+$`

// SignEdDSAPayload 定义
type SignEdDSAPayload struct {
	FPRV         string `json:"fprv"`
	Account      int64  `json:"account"`
	Change       int64  `json:"change"`
	AddressIndex int64  `json:"address_index"`
	CoinType     int64  `json:"coin_type"`
	Message      string `json:"message"`
}

// Validate validates SignEdDSAPayload
func (m *SignEdDSAPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("fprv", "body", m.FPRV); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("message", "body", m.Message); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("message", "body", m.Message, hexPattern); err != nil {
		res = append(res, err)
	}

	res = appendIndexErrors(res, "account", m.Account)
	res = appendIndexErrors(res, "change", m.Change)
	res = appendIndexErrors(res, "address_index", m.AddressIndex)
	res = appendIndexErrors(res, "coin_type", m.CoinType)

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *SignEdDSAPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// SignatureResponse 定义
type SignatureResponse struct {
	Path      string `json:"path"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// MarshalBinary interface implementation
func (m *SignatureResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *SignatureResponse) UnmarshalBinary(b []byte) error {
	var res SignatureResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
