package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PublishReceipt records one accepted publish submission: the local and
// remote collection ids, the SHA-256 of the canonicalized item batch and the
// submitted payload for audit.
type PublishReceipt struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	LocalID     string         `gorm:"type:text;not null;index"`
	RemoteID    string         `gorm:"type:text;not null;index"`
	Account     string         `gorm:"type:text;not null"`
	BatchHash   string         `gorm:"type:text;not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	SubmittedAt time.Time      `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (PublishReceipt) TableName() string {
	return "publish_receipts"
}
