package visualization

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// entityRand returns a generator keyed by the layout seed and an entity id,
// so an entity keeps its jitter across re-renders of unchanged data.
func entityRand(seed, id string) *rand.Rand {
	d := xxhash.New()
	d.WriteString(seed)
	d.Write([]byte{0})
	d.WriteString(id)
	hi := d.Sum64()
	d.Write([]byte{1})
	lo := d.Sum64()
	return rand.New(rand.NewPCG(hi, lo))
}

// unitHash maps the given parts to a float in [0, 1)
func unitHash(parts ...string) float64 {
	d := xxhash.New()
	for i, p := range parts {
		if i > 0 {
			d.Write([]byte{0})
		}
		d.WriteString(p)
	}
	return float64(d.Sum64()>>11) / (1 << 53)
}
