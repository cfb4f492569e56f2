package model

// Account is a locally known server account the UI can pick for its clients.
type Account struct {
	ID         string `json:"AccountId"`
	ServerName string `json:"ServerName"`
	RestAPI    string `json:"RestApi"`
	Email      string `json:"Email"`
	Token      string `json:"Token"`
	IsDefault  bool   `json:"IsDefault"`
}
