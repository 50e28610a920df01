package model

// Resume 每个用户至多一份简历，重新上传时覆盖
type Resume struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex;not null" json:"-"`
	FilePath  string `gorm:"size:255;not null" json:"-"`
	FileName  string `gorm:"size:255" json:"filename"`
	Processed bool   `gorm:"default:false" json:"processed"`
}

func (Resume) TableName() string {
	return "resumes"
}
