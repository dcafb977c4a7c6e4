package model

import (
	"time"

	"github.com/google/uuid"
)

// TutorSubjectModel: relasi tutor ↔ subject yang dia ajar.
type TutorSubjectModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_tutor_subjects_pair,priority:1" json:"tutor_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_tutor_subjects_pair,priority:2" json:"subject_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TutorSubjectModel) TableName() string {
	return "tutor_subjects"
}
