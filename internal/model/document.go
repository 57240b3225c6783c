package model

// SyllabusDocument 用户上传的教学大纲附件
// swagger:model SyllabusDocument
type SyllabusDocument struct {
	UUIDBase
	UserID      uint   `gorm:"index" json:"-"`
	Name        string `gorm:"size:255;not null" json:"name"`
	ContentType string `gorm:"size:100" json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `gorm:"size:512" json:"url"`
}

func (SyllabusDocument) TableName() string {
	return "syllabus_documents"
}
