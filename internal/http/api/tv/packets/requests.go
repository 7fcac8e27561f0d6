package packets

// REQUESTS FOR /api/tv/pair
type RegisterPairingRequest struct {
	Name string `json:"name"`
}

// REQUESTS FOR /api/tv/socket
type MQTTConnectRequest struct {
	BrokerURL string `json:"broker_url"`
}
