package backend

import "encoding/json"

// StatusView is the JSON object the status phase sends to clients,
// carrying the fields recognized by spec §3.
type StatusView struct {
	Version     VersionInfo     `json:"version"`
	Players     PlayersInfo     `json:"players"`
	Description json.RawMessage `json:"description"`
	Favicon     string          `json:"favicon,omitempty"`
}

// VersionInfo is the `version` object of a StatusView.
type VersionInfo struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

// PlayersInfo is the `players` object of a StatusView.
type PlayersInfo struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []PlayerSample `json:"sample,omitempty"`
}

// PlayerSample is one entry of the `players.sample` array.
type PlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// DescriptionText builds the `{"text": "..."}` chat object used for plain
// MOTD/disconnect strings throughout the wire protocol.
func DescriptionText(text string) json.RawMessage {
	raw, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		// json.Marshal of a struct containing only a string cannot fail.
		panic(err)
	}
	return raw
}
