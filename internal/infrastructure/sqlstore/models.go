package sqlstore

import "time"

// carMakeRow - a car manufacturer
type carMakeRow struct {
	ID          uint          `gorm:"primaryKey"`
	Name        string        `gorm:"size:30;not null;default:None"`
	Description string        `gorm:"size:1000"`
	Models      []carModelRow `gorm:"foreignKey:MakeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (carMakeRow) TableName() string { return "car_makes" }

// carModelRow - a model sold by a dealer, optionally tied to a make
type carModelRow struct {
	ID        uint   `gorm:"primaryKey"`
	DealerID  int    `gorm:"not null;index"`
	Name      string `gorm:"size:30;not null;default:None"`
	Type      string `gorm:"size:5;not null;default:sedan"`
	Year      int    `gorm:"not null"`
	MakeID    *uint  `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (carModelRow) TableName() string { return "car_models" }

// carModelWithMake is a car_models row joined with its make name.
type carModelWithMake struct {
	ID       uint
	DealerID int
	Name     string
	Type     string
	Year     int
	MakeID   *uint
	MakeName string
}

// userRow - an account of the web front-end
type userRow struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;not null;uniqueIndex"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	PasswordHash []byte `gorm:"not null"`
	IsStaff      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }
