package models

type Sport struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"size:50;not null;uniqueIndex:idx_sports_slug" json:"slug"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// UserSport is one (user, sport) pair with the user's self-declared level.
type UserSport struct {
	UserID  uint   `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SportID uint   `gorm:"primaryKey;autoIncrement:false" json:"sport_id"`
	Level   string `gorm:"size:20;not null" json:"level"`
}

const (
	LevelBeginner     = "debutant"
	LevelIntermediate = "intermediaire"
	LevelExpert       = "expert"
)
