package model

// TimeSlot вычисляемый кандидат начала занятия, в базе не хранится
type TimeSlot struct {
	Time      Clock `json:"time"`
	Available bool  `json:"available"`
}
