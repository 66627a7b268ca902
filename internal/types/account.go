package types

type Account struct {
	User string `json:"user"` // Twitch login used for API identity checks
	Nick string `json:"nick"` // nickname sent in the NICK handshake
}
