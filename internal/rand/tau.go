package rand

// Tau is a combined Tausworthe generator. It is cheaper than MT19937 but
// its stream has no NumPy counterpart.
type Tau struct {
	state [3]int64
}

// NewTau creates a Tausworthe generator from a seed.
func NewTau(seed int64) *Tau {
	t := &Tau{}
	t.Seed(seed)
	return t
}

// Seed resets the state from seed using an LCG, then discards ten outputs.
func (t *Tau) Seed(seed int64) {
	if seed == 0 {
		seed = 1
	}
	t.state[0] = seed
	t.state[1] = t.state[0]*6364136223846793005 + 1442695040888963407
	t.state[2] = t.state[1]*6364136223846793005 + 1442695040888963407
	// Warm up
	for i := 0; i < 10; i++ {
		t.Uint32()
	}
}

// Uint32 advances the three component generators and combines them.
func (t *Tau) Uint32() uint32 {
	s := &t.state
	s[0] = (((s[0] & 4294967294) << 12) & 0xFFFFFFFF) ^
		((((s[0] << 13) & 0xFFFFFFFF) ^ s[0]) >> 19)
	s[1] = (((s[1] & 4294967288) << 4) & 0xFFFFFFFF) ^
		((((s[1] << 2) & 0xFFFFFFFF) ^ s[1]) >> 25)
	s[2] = (((s[2] & 4294967280) << 17) & 0xFFFFFFFF) ^
		((((s[2] << 3) & 0xFFFFFFFF) ^ s[2]) >> 11)
	return uint32(s[0] ^ s[1] ^ s[2])
}

// Float64 generates a random float64 in [0, 1) from 53 bits of two outputs.
func (t *Tau) Float64() float64 {
	a := t.Uint32() >> 5
	b := t.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Uint64 combines two consecutive outputs, high word first.
func (t *Tau) Uint64() uint64 {
	hi := uint64(t.Uint32())
	return hi<<32 | uint64(t.Uint32())
}
