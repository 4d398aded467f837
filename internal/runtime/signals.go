package runtime

// SignalKind names a request to a host sub-system. The engine never resolves
// combat, trade, conversations, or effects itself; it emits a signal and the
// host acts on it.
type SignalKind string

const (
	SignalEnterCombat       SignalKind = "enterCombat"
	SignalEndCombat         SignalKind = "endCombat"
	SignalEnterTrade        SignalKind = "enterTrade"
	SignalEnterConversation SignalKind = "enterConversation"
	SignalPlayFx            SignalKind = "playFx"
	SignalEndGame           SignalKind = "endGame"
)

// Signal is one typed request for the host. Target is the entity the request
// concerns (an NPC for combat/trade/conversation, an effect ID for playFx),
// empty where the kind needs none.
type Signal struct {
	Kind    SignalKind `json:"kind"`
	Target  string     `json:"target,omitempty"`
	Victory bool       `json:"victory,omitempty"` // endGame only
}
