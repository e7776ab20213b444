package univ3

import "math/big"

// Tick bounds of the exponential price grid before the Q96 representation
// overflows, matching the canonical pool implementation.
const (
	MinTick = -887272
	MaxTick = 887272
)

var (
	Q96  = new(big.Int).Lsh(big.NewInt(1), 96)
	Q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	// MinSqrtRatio and MaxSqrtRatio are SqrtRatioAtTick at the tick bounds.
	MinSqrtRatio = mustBig("4295128739")
	MaxSqrtRatio = mustBig("1461446703485210103287273052203988822378723970342")

	maxUint256  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	shiftMask32 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 32), big.NewInt(1))
)

// tickRatios are the precomputed Q128 multipliers for the bit decomposition
// of sqrt(1.0001)^(-2^i).
var tickRatios = [19]*big.Int{
	mustBigHex("fff97272373d413259a46990580e213a"),
	mustBigHex("fff2e50f5f656932ef12357cf3c7fdcc"),
	mustBigHex("ffe5caca7e10e4e61c3624eaa0941cd0"),
	mustBigHex("ffcb9843d60f6159c9db58835c926644"),
	mustBigHex("ff973b41fa98c081472e6896dfb254c0"),
	mustBigHex("ff2ea16466c96a3843ec78b326b52861"),
	mustBigHex("fe5dee046a99a2a811c461f1969c3053"),
	mustBigHex("fcbe86c7900a88aedcffc83b479aa3a4"),
	mustBigHex("f987a7253ac413176f2b074cf7815e54"),
	mustBigHex("f3392b0822b70005940c7a398e4b70f3"),
	mustBigHex("e7159475a2c29b7443b29c7fa6e889d9"),
	mustBigHex("d097f3bdfd2022b8845ad8f792aa5825"),
	mustBigHex("a9f746462d870fdf8a65dc1f90e061e5"),
	mustBigHex("70d869a156d2a1b890bb3df62baf32f7"),
	mustBigHex("31be135f97d08fd981231505542fcfa6"),
	mustBigHex("9aa508b5b7a84e1c677de54f3e99bc9"),
	mustBigHex("5d6af8dedb81196699c329225ee604"),
	mustBigHex("2216e584f5fa1ea926041bedfe98"),
	mustBigHex("48a170391f7dc42444e8fa2"),
}

var tickRatioOdd = mustBigHex("fffcb933bd6fad37aa2d162d1a594001")
var tickRatioOne = mustBigHex("100000000000000000000000000000000")

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("univ3: invalid constant " + s)
	}
	return v
}

func mustBigHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("univ3: invalid constant " + s)
	}
	return v
}
