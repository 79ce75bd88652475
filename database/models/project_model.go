package models

type Project struct {
	Model
	Name        string `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
}

func (p Project) TableName() string {
	return "projects"
}
