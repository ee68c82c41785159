package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Timestamps is embedded by every persisted model.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

var errUnsupportedJSONB = errors.New("unsupported jsonb source type")

func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return errUnsupportedJSONB
	}
}
