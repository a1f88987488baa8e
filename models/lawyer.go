package models

import (
	"time"
)

// DefaultRating is shown for lawyers that have not been rated yet.
const DefaultRating = 4.5

type Lawyer struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name          string      `json:"name" gorm:"not null" bson:"name"`
	Email         string      `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	Password      string      `json:"-" gorm:"not null" bson:"password"`
	Image         string      `json:"image" bson:"image"`
	Speciality    string      `json:"speciality" gorm:"index" bson:"speciality"`
	Qualification string      `json:"qualification" bson:"qualification"`
	Experience    string      `json:"experience" bson:"experience"`
	About         string      `json:"about" bson:"about"`
	Fees          int         `json:"fees" bson:"fees"`
	Address       string      `json:"address" bson:"address"`
	BarID         *string     `json:"bar_id,omitempty" gorm:"uniqueIndex" bson:"bar_id,omitempty"`
	Approved      bool        `json:"approved" gorm:"not null;index" bson:"approved"`
	Available     bool        `json:"available" gorm:"not null" bson:"available"`
	SlotsBooked   SlotsBooked `json:"slots_booked" gorm:"type:jsonb;not null;default:'{}'" bson:"slots_booked"`
	Rating        *float64    `json:"rating,omitempty" bson:"rating,omitempty"`
	Reviews       *int        `json:"reviews,omitempty" bson:"reviews,omitempty"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" bson:"updated_at"`
}

// Bookable reports whether clients may see and book the lawyer.
func (l *Lawyer) Bookable() bool {
	return l.Approved && l.Available
}

// LawyerCard is the client-facing listing shape.
type LawyerCard struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Speciality    string  `json:"speciality"`
	Qualification string  `json:"qualification"`
	Experience    string  `json:"experience"`
	About         string  `json:"about"`
	Fees          int     `json:"fees"`
	Address       string  `json:"address"`
	Available     bool    `json:"available"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
}

func (l *Lawyer) Card() LawyerCard {
	card := LawyerCard{
		ID:            l.ID,
		Name:          l.Name,
		Image:         l.Image,
		Speciality:    l.Speciality,
		Qualification: l.Qualification,
		Experience:    l.Experience,
		About:         l.About,
		Fees:          l.Fees,
		Address:       l.Address,
		Available:     l.Available,
		Rating:        DefaultRating,
	}
	if l.Rating != nil {
		card.Rating = *l.Rating
	}
	if l.Reviews != nil {
		card.Reviews = *l.Reviews
	}
	return card
}
