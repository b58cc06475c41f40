package models

import "time"

// Cliente is the tenant. Each cliente owns its lançamentos and carries
// exactly one pair of Omie API credentials used for every call made on its
// behalf. The app secret is stored AES-GCM encrypted (base64), never in
// plaintext.
type Cliente struct {
	ID               uint   `gorm:"primaryKey"`
	Nome             string `gorm:"size:128;not null"`
	Email            string `gorm:"size:255;uniqueIndex;not null"`
	Ativo            bool   `gorm:"index;not null;default:true"`
	OmieAppKey       string `gorm:"size:64"`
	OmieAppSecretEnc string `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
