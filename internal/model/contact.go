package model

// Contact is the delivery address an owner registered for one channel: a
// phone number for sms, a mail address for email. Push uses device endpoints
// in push_subscriptions instead.
type Contact struct {
	ID      string  `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID string  `gorm:"type:varchar(32);not null;uniqueIndex:idx_contact_owner_channel" json:"owner_id"`
	Channel Channel `gorm:"type:varchar(16);not null;uniqueIndex:idx_contact_owner_channel" json:"channel"`
	Address string  `gorm:"type:varchar(255);not null" json:"address"`
	Timestamps
}

func (Contact) TableName() string {
	return "contacts"
}
