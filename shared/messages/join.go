package messages

// JoinGame is sent by a client after connecting to request a player entity.
type JoinGame struct {
	PlayerName string
	UserID     string
	Token      string
}

// JoinAccepted is sent by the server once the player has been admitted.
// PlayerID matches PlayerData.PlayerID of the player's spawned entity.
type JoinAccepted struct {
	PlayerID string
	RoomID   string
}
