package gameserver

// ClientConnectionState is the connection lifecycle.
// CONNECTED accepts only EnterWorld, IN_GAME accepts the taxi and movement packets.
type ClientConnectionState int32

const (
	ClientStateConnected    ClientConnectionState = iota // KeyPacket sent
	ClientStateInGame                                    // character spawned
	ClientStateDisconnected                              // closed, nothing accepted
)

var clientStateNames = [...]string{
	ClientStateConnected:    "CONNECTED",
	ClientStateInGame:       "IN_GAME",
	ClientStateDisconnected: "DISCONNECTED",
}

func (s ClientConnectionState) String() string {
	if s < 0 || int(s) >= len(clientStateNames) {
		return "UNKNOWN"
	}
	return clientStateNames[s]
}
