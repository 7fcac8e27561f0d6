package packets

// RESPONSES FOR /api/tv/*

type RegisterPairingResponse struct {
	DeviceID    int    `json:"device_id"`
	PairingCode string `json:"pairing_code"`
}

// PairingStatusResponse carries the device token once an admin has claimed
// the code; until then Token is absent.
type PairingStatusResponse struct {
	Paired bool    `json:"paired"`
	Token  *string `json:"token,omitempty"`
}
