package models

// Schedule represents the scheduling backend's schedule table (Read Only!)
type Schedule struct {
	ID             uint    `gorm:"column:id;primaryKey" json:"id"`
	ProgramSession string  `gorm:"column:program_session;size:100" json:"program_session"`
	Major          string  `gorm:"column:major;size:100" json:"major"`
	Curriculum     string  `gorm:"column:curriculum;size:100" json:"curriculum"`
	ClassName      string  `gorm:"column:class_name;size:100" json:"class_name"`
	Subject        string  `gorm:"column:subject;size:100" json:"subject"`
	Credit         float64 `gorm:"column:credit" json:"credit"`
	Room           string  `gorm:"column:room;size:100" json:"room"`
	SchedTime      string  `gorm:"column:sched_time;size:100" json:"sched_time"`
	Lecturer       string  `gorm:"column:lecturer;size:100" json:"lecturer"`
}

func (Schedule) TableName() string {
	return "schedule"
}
