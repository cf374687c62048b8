package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type User struct {
	UserUUID  string    `gorm:"column:user_uuid;primaryKey;size:255" json:"userUuid"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Images    []Image   `gorm:"foreignKey:UserUUID;references:UserUUID" json:"images,omitempty"`
}

type Image struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UUID        string     `gorm:"size:255;uniqueIndex;not null" json:"uuid"`
	ImageURL    string     `gorm:"column:image_url" json:"imageURL"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	UserUUID    string     `gorm:"column:user_uuid;size:255;not null;index" json:"userUuid"`
	User        *User      `json:"user,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

// StringList stores an ordered list of strings as a single comma-separated
// text column, the same encoding the rows migrated from the old stack use.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if raw == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}
