package nats

import (
	"encoding/json"
	"time"
)

// SubjectRetrain carries "retrain now for tenant X" triggers
const SubjectRetrain = "winpredict.train.retrain"

// Retrain trigger reasons, for operator visibility only
const (
	ReasonUpload       = "upload"
	ReasonStatusUpdate = "status_update"
	ReasonDelete       = "delete"
	ReasonManual       = "manual"
)

// RetrainMsg asks the trainer worker to refit one tenant's model. The
// worker queries the tenant's current labeled records itself, so the
// message carries no data beyond the tenant identity.
type RetrainMsg struct {
	TenantID    string    `json:"tenant_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Encode serializes a message to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeRetrain deserializes a RetrainMsg from JSON bytes
func DecodeRetrain(data []byte) (*RetrainMsg, error) {
	var msg RetrainMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
