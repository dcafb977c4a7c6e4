// file: internals/features/catalog/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	/* ============ PK ============ */
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`

	/* ============ Identitas ============ */
	SubjectName string  `gorm:"column:subject_name;type:varchar(120);not null;uniqueIndex:uq_subjects_name" json:"subject_name"`
	SubjectSlug string  `gorm:"column:subject_slug;type:varchar(160);not null;uniqueIndex:uq_subjects_slug" json:"subject_slug"`
	SubjectDesc *string `gorm:"column:subject_desc;type:text" json:"subject_desc,omitempty"`

	/* ============ Status & audit ============ */
	SubjectIsActive  bool           `gorm:"column:subject_is_active;not null;default:true" json:"subject_is_active"`
	SubjectCreatedAt time.Time      `gorm:"column:subject_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"column:subject_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }
