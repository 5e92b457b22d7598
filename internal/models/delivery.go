package models

// DeliveryReceipt records a message-delivery confirmation from the
// platform. Kept for diagnostics only; never consulted by the bot core.
type DeliveryReceipt struct {
	BaseModel
	UserID     string   `gorm:"index" json:"user_id"`
	Watermark  int64    `json:"watermark"`
	Seq        int      `json:"seq"`
	MessageIDs []string `gorm:"serializer:json" json:"message_ids"`
}
