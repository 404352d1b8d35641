package gamify

import "math/rand"

// Flavor pool names used by the API layer when decorating result events.
const (
	PoolPraise  = "praise"
	PoolRoast   = "roast"
	PoolLevelUp = "levelup"
)

// DefaultFlavorPools is the compiled-in copy table. The catalog file can
// replace any pool wholesale.
func DefaultFlavorPools() map[string][]string {
	return map[string][]string{
		PoolPraise: {
			"Shipped. The feed thanks you.",
			"Another one out the door.",
			"Clean call. Keep swiping.",
			"The algorithm smiles upon you.",
		},
		PoolRoast: {
			"Skipped again? The queue remembers.",
			"That caption will haunt the drafts folder forever.",
			"Bold of you to leave that for tomorrow-you.",
		},
		PoolLevelUp: {
			"Level up! Someone get this moderator a bigger desk.",
			"New level unlocked. The interns are taking notes.",
			"You leveled up. The queue did not get shorter.",
		},
	}
}

// PickMessage selects one message from a pool using the given seed, so
// tests (and replay) get deterministic copy. Empty pools yield "".
func PickMessage(pool []string, seed int64) string {
	if len(pool) == 0 {
		return ""
	}
	r := rand.New(rand.NewSource(seed))
	return pool[r.Intn(len(pool))]
}
