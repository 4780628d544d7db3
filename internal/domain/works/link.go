package works

import "time"

// ArtworkAudio links an artwork to an audio entry (e.g. the mix it was made to).
type ArtworkAudio struct {
	ArtworkID string    `gorm:"type:uuid;primaryKey" json:"artworkId"`
	AudioID   string    `gorm:"type:uuid;primaryKey" json:"audioId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ArtworkAudio) TableName() string {
	return "artwork_audios"
}
