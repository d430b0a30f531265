package curve

import (
	"math/big"
)

var two = big.NewInt(2)

// ModInt is a *big.Int that performs all of its arithmetic with modular reduction.
type ModInt big.Int

func NewModInt(mod *big.Int) *ModInt {
	return (*ModInt)(new(big.Int).Set(mod))
}

func (mi *ModInt) Add(x, y *big.Int) *big.Int {
	i := new(big.Int).Add(x, y)
	return i.Mod(i, mi.i())
}

func (mi *ModInt) Sub(x, y *big.Int) *big.Int {
	i := new(big.Int).Sub(x, y)
	return i.Mod(i, mi.i())
}

func (mi *ModInt) Mul(x, y *big.Int) *big.Int {
	i := new(big.Int).Mul(x, y)
	return i.Mod(i, mi.i())
}

func (mi *ModInt) Exp(x, y *big.Int) *big.Int {
	return new(big.Int).Exp(x, y, mi.i())
}

// InverseFermat returns x^(p-2) mod p, the inverse of x when the modulus p is prime.
// Negative x is reduced first.
func (mi *ModInt) InverseFermat(x *big.Int) *big.Int {
	r := new(big.Int).Mod(x, mi.i())
	return r.Exp(r, new(big.Int).Sub(mi.i(), two), mi.i())
}

func (mi *ModInt) i() *big.Int {
	return (*big.Int)(mi)
}
